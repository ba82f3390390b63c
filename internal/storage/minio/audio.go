package minio

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	mclient "github.com/minio/minio-go/v7"

	"github.com/pribylovaa/go-news-aggregator/briefing-service/internal/storage"
)

// UploadAudio загружает аудио по ключу с перезаписью существующего объекта.
// Ключ детерминирован по слоту выпуска, поэтому повторный запуск того же
// слота перезаписывает прежний объект, а не плодит новые.
// Возвращает публичный URL вида "<PublicBaseURL>/<key>".
func (s *AudioStorage) UploadAudio(ctx context.Context, key string, data []byte) (string, error) {
	const op = "storage/minio/UploadAudio"

	if key == "" || len(data) == 0 {
		return "", storage.ErrInvalidArgument
	}

	_, err := s.client.PutObject(ctx, s.cfg.S3.Bucket, key,
		bytes.NewReader(data), int64(len(data)),
		mclient.PutObjectOptions{ContentType: "audio/mpeg"},
	)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	base := strings.TrimRight(s.cfg.S3.PublicBaseURL, "/")

	return base + "/" + key, nil
}
