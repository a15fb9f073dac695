package validation

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"slices"

	"maintenance-system/config"
	apperrors "maintenance-system/pkg/errors"
)

const sniffLen = 512

// ValidateFile проверяет загружаемый файл по правилам из config.UploadContexts.
// После проверки курсор file возвращается в начало.
func ValidateFile(fileHeader *multipart.FileHeader, file io.ReadSeeker, uploadContext string) error {
	rules, ok := config.UploadContexts[uploadContext]
	if !ok {
		return fmt.Errorf("неизвестный контекст загрузки %q", uploadContext)
	}

	if limit := rules.MaxSizeMB << 20; limit > 0 && fileHeader.Size > limit {
		return apperrors.NewValidationError("размер файла %.2f MB больше допустимых %d MB",
			float64(fileHeader.Size)/(1<<20), rules.MaxSizeMB)
	}

	mimeType, err := sniffMimeType(file)
	if err != nil {
		return err
	}
	if !slices.Contains(rules.AllowedMimeTypes, mimeType) {
		return apperrors.NewValidationError("формат %s не поддерживается для %s", mimeType, uploadContext)
	}
	return nil
}

// sniffMimeType определяет тип по содержимому, а не по имени файла.
func sniffMimeType(file io.ReadSeeker) (string, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(file, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", fmt.Errorf("чтение файла: %w", err)
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("перемотка файла: %w", err)
	}
	return http.DetectContentType(head[:n]), nil
}
