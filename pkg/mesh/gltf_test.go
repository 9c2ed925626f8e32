package mesh

import "testing"

func TestLoadNonexistentPath(t *testing.T) {
	_, err := Load("/nonexistent/path/model.glb")
	if err == nil {
		t.Error("expected an error loading a nonexistent glTF file")
	}
}
