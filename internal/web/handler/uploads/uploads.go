// Package uploads serves the local asset upload area: multipart upload,
// listing, download and deletion of files under a configured directory.
package uploads

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/sparky-messaging/sparky-admin/internal/config"
	"github.com/sparky-messaging/sparky-admin/internal/web/handler"
)

const (
	// Path is the base path of the uploads API.
	Path = "/api/uploads"

	// FilePath is the path serving uploaded files.
	FilePath = "/uploads"

	defaultMaxSizeMB   = 25
	defaultListPageMax = 200
)

// FileInfo is the metadata returned for an uploaded file.
type FileInfo struct {
	Name       string    `json:"name"`
	Size       int64     `json:"size"`
	ModifiedAt time.Time `json:"modifiedAt"`
	URL        string    `json:"url"`
}

// Service is the uploads handler service.
type Service struct {
	cfg *config.Config
	dir string
}

// Handler is the uploads handler.
var Handler = Service{}

// Init initializes the uploads handler and makes sure the upload directory exists.
func (s *Service) Init(app *fiber.App, cfg *config.Config) error {
	if app == nil || cfg == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg) //nolint:goerr113
	}

	s.cfg = cfg
	s.dir = cfg.Uploads.Dir

	if s.dir == "" {
		s.dir = "./uploads"
	}

	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		return err //nolint:wrapcheck
	}

	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RouterRootPath, s.List)
		router.Post(handler.RouterRootPath, s.Upload)
		router.Delete("/:name", s.Delete)
	})

	app.Get(FilePath+"/:name", s.Download)

	return nil
}

// safeName rejects path traversal and hidden files, returning the bare file name.
func (s *Service) safeName(raw string) (string, error) {
	name := filepath.Base(filepath.Clean(raw))
	if name == "" || name == "." || name == ".." || strings.HasPrefix(name, ".") {
		return "", errors.New("invalid file name") //nolint:goerr113
	}

	return name, nil
}

func (s *Service) maxSize() int64 {
	maxMB := s.cfg.Uploads.MaxSizeMB
	if maxMB <= 0 {
		maxMB = defaultMaxSizeMB
	}

	return int64(maxMB) << 20 //nolint:mnd
}

// List returns metadata for all uploaded files, newest first.
func (s *Service) List(c *fiber.Ctx) error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		log.Error().Err(err).Str("dir", s.dir).Msg("failed to read upload directory")

		return fiber.ErrInternalServerError
	}

	limit := s.cfg.Uploads.ListPageMax
	if limit <= 0 {
		limit = defaultListPageMax
	}

	files := make([]FileInfo, 0, len(entries))

	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		files = append(files, FileInfo{
			Name:       entry.Name(),
			Size:       info.Size(),
			ModifiedAt: info.ModTime(),
			URL:        FilePath + "/" + entry.Name(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].ModifiedAt.After(files[j].ModifiedAt)
	})

	if len(files) > limit {
		files = files[:limit]
	}

	return c.JSON(files)
}

// Upload stores a multipart file under the upload directory.
func (s *Service) Upload(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "missing file field")
	}

	if fileHeader.Size > s.maxSize() {
		return fiber.NewError(fiber.StatusRequestEntityTooLarge, "file too large")
	}

	name, err := s.safeName(fileHeader.Filename)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid file name")
	}

	dest := filepath.Join(s.dir, name)
	if err := c.SaveFile(fileHeader, dest); err != nil {
		log.Error().Err(err).Str("file", name).Msg("failed to store upload")

		return fiber.ErrInternalServerError
	}

	info, err := os.Stat(dest)
	if err != nil {
		return fiber.ErrInternalServerError
	}

	log.Info().Str("file", name).Int64("size", info.Size()).Msg("file uploaded")

	return c.Status(fiber.StatusCreated).JSON(FileInfo{
		Name:       name,
		Size:       info.Size(),
		ModifiedAt: info.ModTime(),
		URL:        FilePath + "/" + name,
	})
}

// Download serves a single uploaded file.
func (s *Service) Download(c *fiber.Ctx) error {
	name, err := s.safeName(c.Params("name"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid file name")
	}

	path := filepath.Join(s.dir, name)
	if _, err := os.Stat(path); err != nil {
		return fiber.ErrNotFound
	}

	return c.SendFile(path)
}

// Delete removes an uploaded file.
func (s *Service) Delete(c *fiber.Ctx) error {
	name, err := s.safeName(c.Params("name"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid file name")
	}

	path := filepath.Join(s.dir, name)
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return fiber.ErrNotFound
		}

		log.Error().Err(err).Str("file", name).Msg("failed to delete upload")

		return fiber.ErrInternalServerError
	}

	log.Info().Str("file", name).Msg("file deleted")

	return c.JSON(fiber.Map{"deleted": name})
}
