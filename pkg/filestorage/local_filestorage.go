// pkg/filestorage/local_filestorage.go

package filestorage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// FileStorageInterface - хранилище загруженных и сгенерированных изображений.
// Save возвращает публичный URL файла (например "/uploads/protocol-steps/2026/10/15/...png").
type FileStorageInterface interface {
	Save(file io.Reader, originalFileName string, prefix string) (fileURL string, err error)
	Delete(fileURL string) error
}

type LocalFileStorage struct {
	basePath  string
	urlPrefix string
}

func NewLocalFileStorage(basePath, urlPrefix string) (FileStorageInterface, error) {
	if _, err := os.Stat(basePath); os.IsNotExist(err) {
		if err := os.MkdirAll(basePath, 0o755); err != nil {
			return nil, fmt.Errorf("не удалось создать директорию: %w", err)
		}
	}
	return &LocalFileStorage{basePath: basePath, urlPrefix: strings.TrimSuffix(urlPrefix, "/")}, nil
}

func (s *LocalFileStorage) Save(file io.Reader, originalFileName string, prefix string) (string, error) {
	ext := filepath.Ext(originalFileName)
	uniqueFileName := fmt.Sprintf("%s-%s%s", time.Now().Format("2006-01-02"), uuid.New().String(), ext)

	datePath := time.Now().Format("2006/01/02")
	fullDirPath := filepath.Join(s.basePath, prefix, datePath)

	if err := os.MkdirAll(fullDirPath, 0o755); err != nil {
		return "", err
	}

	dst, err := os.Create(filepath.Join(fullDirPath, uniqueFileName))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err = io.Copy(dst, file); err != nil {
		return "", err
	}

	return s.urlPrefix + "/" + filepath.ToSlash(filepath.Join(prefix, datePath, uniqueFileName)), nil
}

func (s *LocalFileStorage) Delete(fileURL string) error {
	// fileURL приходит в виде "/uploads/prefix/2024/08/21/file.jpg"
	relativePath := strings.TrimPrefix(fileURL, s.urlPrefix+"/")
	if relativePath == fileURL {
		// Чужие URL (например, внешние картинки ИИ) не трогаем
		return nil
	}
	fullPath := filepath.Join(s.basePath, filepath.FromSlash(relativePath))
	if !strings.HasPrefix(fullPath, filepath.Clean(s.basePath)+string(filepath.Separator)) {
		return fmt.Errorf("путь %q выходит за пределы хранилища", fileURL)
	}

	if _, err := os.Stat(fullPath); os.IsNotExist(err) {
		return nil
	}
	return os.Remove(fullPath)
}
