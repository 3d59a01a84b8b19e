package artifact

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFSWriter_WriteAndRead(t *testing.T) {
	root := t.TempDir()
	w := NewFSWriter(root, "receipts", "")

	ptr, err := w.WriteFile("ord-1", "receipt.html", []byte("<html></html>"))
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if ptr != "/uploads/receipts/ord-1/receipt.html" {
		t.Fatalf("unexpected pointer %q", ptr)
	}
	if _, err := os.Stat(filepath.Join(root, "receipts", "ord-1", "receipt.html")); err != nil {
		t.Fatalf("expected file on disk: %v", err)
	}
	data, err := w.ReadFile(ptr)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "<html></html>" {
		t.Fatalf("unexpected content %q", data)
	}
}

func TestFSWriter_PublicBaseURL(t *testing.T) {
	w := NewFSWriter(t.TempDir(), "receipts", "https://cdn.example.com/")
	ptr, err := w.WriteFile("ord-2", "receipt.pdf", []byte("%PDF-"))
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if ptr != "https://cdn.example.com/uploads/receipts/ord-2/receipt.pdf" {
		t.Fatalf("unexpected pointer %q", ptr)
	}
	if _, ok := w.LocalPath(ptr); !ok {
		t.Fatalf("expected pointer to map back to disk")
	}
}

func TestFSWriter_Unavailable(t *testing.T) {
	root := t.TempDir()
	blocker := filepath.Join(root, "receipts")
	if err := os.WriteFile(blocker, []byte("not a dir"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	w := NewFSWriter(root, "receipts", "")
	_, err := w.WriteFile("ord-3", "receipt.html", []byte("x"))
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestFSWriter_RejectsTraversal(t *testing.T) {
	w := NewFSWriter(t.TempDir(), "receipts", "")
	if _, err := w.WriteFile("../etc", "passwd", []byte("x")); err == nil {
		t.Fatalf("expected error for traversal id")
	}
	if _, ok := w.LocalPath("/uploads/../../etc/passwd"); ok {
		t.Fatalf("expected traversal pointer to be rejected")
	}
	if _, ok := w.LocalPath("https://elsewhere.example.com/a.html"); ok {
		t.Fatalf("expected foreign pointer to be rejected")
	}
}

func TestFSWriter_PutAndRemove(t *testing.T) {
	root := t.TempDir()
	w := NewFSWriter(root, "receipts", "https://cdn.example.com")

	ptr, err := w.Put("1700_slip.png", strings.NewReader("png-bytes"))
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if ptr != "https://cdn.example.com/uploads/receipts/1700_slip.png" {
		t.Fatalf("unexpected pointer %q", ptr)
	}
	data, err := w.ReadFile(ptr)
	if err != nil || string(data) != "png-bytes" {
		t.Fatalf("read back: %q %v", data, err)
	}

	if err := w.Remove(ptr); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "receipts", "1700_slip.png")); !os.IsNotExist(err) {
		t.Fatalf("expected file removed, stat err=%v", err)
	}
	if err := w.Remove(ptr); err != nil {
		t.Fatalf("second remove should be a no-op: %v", err)
	}

	for _, name := range []string{"", "../escape.png", "nested/slip.png", ".hidden"} {
		if _, err := w.Put(name, strings.NewReader("x")); err == nil {
			t.Fatalf("expected %q to be rejected", name)
		}
	}
}
