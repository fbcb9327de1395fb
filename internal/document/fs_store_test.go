package document_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/Credo-Linfel-S/Villanueva-BFP1-main-sub002/internal/document"

	"github.com/stretchr/testify/assert"
)

func TestFSStorePut(t *testing.T) {
	root := t.TempDir()
	store := document.NewFSStore(root, "http://localhost:3000/files/")

	url, err := store.Put(context.Background(), "leave-forms/req-1.pdf", []byte("%PDF-1.4"), "application/pdf")
	assert.NoError(t, err)
	assert.Equal(t, "http://localhost:3000/files/leave-forms/req-1.pdf", url)

	got, err := os.ReadFile(filepath.Join(root, "leave-forms", "req-1.pdf"))
	assert.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(got))
}

func TestFSStorePutRejectsEmptyPath(t *testing.T) {
	store := document.NewFSStore(t.TempDir(), "http://localhost:3000/files")

	_, err := store.Put(context.Background(), "", []byte("x"), "text/plain")
	assert.Error(t, err)
}

func TestFSStorePutConfinesTraversal(t *testing.T) {
	root := t.TempDir()
	store := document.NewFSStore(root, "http://localhost:3000/files")

	url, err := store.Put(context.Background(), "../escape.txt", []byte("x"), "text/plain")
	assert.NoError(t, err)
	assert.Equal(t, "http://localhost:3000/files/escape.txt", url)

	_, err = os.Stat(filepath.Join(root, "escape.txt"))
	assert.NoError(t, err, "path stays under the storage root")
}
