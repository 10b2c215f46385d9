package catalog

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"LiveCatalog/pkg/kit"
)

const maxUploadSize = 32 << 20 // 32 MiB

type uploadResponse struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Filename string `json:"filename"`
}

func (s *Server) upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	file, header, err := r.FormFile("file")
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "Missing file field", nil)
		return
	}
	defer file.Close()

	name, ok := safeFilename(header.Filename)
	if !ok {
		kit.WriteError(w, r, http.StatusBadRequest, "Invalid filename", nil)
		return
	}

	// A uuid prefix keeps concurrent uploads of the same name apart; the
	// stored name is what list/download operate on.
	stored := uuid.NewString() + "_" + name

	dst, err := os.Create(filepath.Join(s.UploadDir, stored))
	if err != nil {
		s.fileError(w, r, "create upload file failed", err)
		return
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		_ = os.Remove(dst.Name())
		s.fileError(w, r, "write upload file failed", err)
		return
	}

	kit.WriteJSON(w, http.StatusOK, uploadResponse{
		Status:   "success",
		Message:  fmt.Sprintf("File %s uploaded successfully", name),
		Filename: stored,
	})
}

func (s *Server) download(w http.ResponseWriter, r *http.Request) {
	name, ok := safeFilename(chi.URLParam(r, "filename"))
	if !ok {
		kit.WriteError(w, r, http.StatusBadRequest, "Invalid filename", nil)
		return
	}

	path := filepath.Join(s.UploadDir, name)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			kit.WriteError(w, r, http.StatusNotFound, "File not found", nil)
			return
		}
		s.fileError(w, r, "stat download file failed", err)
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	http.ServeFile(w, r, path)
}

func (s *Server) listFiles(w http.ResponseWriter, r *http.Request) {
	entries, err := os.ReadDir(s.UploadDir)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		s.fileError(w, r, "read upload dir failed", err)
		return
	}

	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			files = append(files, e.Name())
		}
	}

	kit.WriteJSON(w, http.StatusOK, map[string][]string{"files": files})
}

func (s *Server) fileError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	if s.Log != nil {
		s.Log.Error(msg, zap.Error(err))
	}
	kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
}

// safeFilename flattens the name to its base and rejects anything that could
// escape the uploads dir.
func safeFilename(name string) (string, bool) {
	name = filepath.Base(strings.TrimSpace(name))
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", false
	}
	return name, true
}
