package http

import (
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"

	"tontine-backend/internal/domain"
	"tontine-backend/internal/logger"
)

// 5 MB is plenty for a logo or avatar.
const maxUploadSize = 5 << 20

var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
}

// readUpload pulls the "file" part out of a multipart form and validates
// it is an image the storage layer should accept.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (multipartFile, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, domain.Errf(domain.KindValidation, "file exceeds the %d MB upload limit", maxUploadSize>>20))
		return multipartFile{}, false
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, domain.Errf(domain.KindValidation, "multipart field 'file' is required"))
		return multipartFile{}, false
	}
	ext := strings.ToLower(path.Ext(header.Filename))
	if !imageExtensions[ext] {
		file.Close()
		writeError(w, domain.Errf(domain.KindValidation, "unsupported image type %q", ext))
		return multipartFile{}, false
	}
	return multipartFile{reader: file, ext: ext, contentType: header.Header.Get("Content-Type")}, true
}

type multipartFile struct {
	reader      io.ReadCloser
	ext         string
	contentType string
}

func (s *Server) handleUploadLogo(w http.ResponseWriter, r *http.Request) {
	orgID := pathVar(r, "orgID")
	upload, ok := s.readUpload(w, r)
	if !ok {
		return
	}
	defer upload.reader.Close()

	key := "logos/" + orgID + "-" + uuid.NewString()[:8] + upload.ext
	url, err := s.files.Upload(r.Context(), key, upload.contentType, upload.reader)
	if err != nil {
		writeError(w, err)
		return
	}

	updated, err := s.orgs.UpdateOrganization(r.Context(), userIDFrom(r), &domain.Organization{ID: orgID, LogoURL: url})
	if err != nil {
		// The caller was not allowed to change the org; drop the orphan.
		if delErr := s.files.DeleteByURL(r.Context(), url); delErr != nil {
			logger.SinkFailure("storage", delErr, "key", key)
		}
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, updated)
}

func (s *Server) handleUploadAvatar(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)
	upload, ok := s.readUpload(w, r)
	if !ok {
		return
	}
	defer upload.reader.Close()

	key := "avatars/" + userID + "-" + uuid.NewString()[:8] + upload.ext
	url, err := s.files.Upload(r.Context(), key, upload.contentType, upload.reader)
	if err != nil {
		writeError(w, err)
		return
	}

	user, err := s.auth.UpdateProfile(r.Context(), userID, "", "", "", url)
	if err != nil {
		if delErr := s.files.DeleteByURL(r.Context(), url); delErr != nil {
			logger.SinkFailure("storage", delErr, "key", key)
		}
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, user)
}
