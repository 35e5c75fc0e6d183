// Package s3storage сохраняет файлы документов в S3-совместимом хранилище (MinIO).
//
// Ключ объекта: documentos/<user_id>/<slug документа>/<uuid>-<имя файла>.
package s3storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/ilkoid/produtor-chat/pkg/config"
	"github.com/ilkoid/produtor-chat/pkg/flow"
	"github.com/ilkoid/produtor-chat/pkg/utils"
)

// RootPrefix — корневая "папка" документов в бакете.
const RootPrefix = "documentos"

// objectAPI — часть *minio.Client, которую использует клиент.
// Позволяет мокать хранилище в тестах.
type objectAPI interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	ListObjects(ctx context.Context, bucketName string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo
}

// Client — загрузчик документов.
type Client struct {
	api    objectAPI
	bucket string
	newID  func() string
}

// Проверка что Client реализует порт отправки документов
var _ flow.DocumentSubmitter = (*Client)(nil)

// StoredObject — объект в бакете.
type StoredObject struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// New создает клиент, используя наш конфиг
func New(cfg config.S3Config) (*Client, error) {
	minioClient, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create s3 client: %w", err)
	}

	return newClient(minioClient, cfg.Bucket), nil
}

func newClient(api objectAPI, bucket string) *Client {
	return &Client{api: api, bucket: bucket, newID: uuid.NewString}
}

// ObjectKey строит ключ объекта для файла документа.
func (c *Client) ObjectKey(userID, documentName, fileName string) string {
	if userID == "" {
		userID = "anonimo"
	}
	name := path.Base(strings.ReplaceAll(fileName, "\\", "/"))
	return path.Join(RootPrefix, userID, Slug(documentName), c.newID()+"-"+name)
}

// SubmitDocument загружает файл в бакет.
func (c *Client) SubmitDocument(ctx context.Context, file flow.DocumentFile) error {
	key := c.ObjectKey(file.UserID, file.DocumentName, file.FileName)

	contentType := file.ContentType
	if contentType == "" {
		contentType = http.DetectContentType(file.Data)
	}

	info, err := c.api.PutObject(ctx, c.bucket, key, bytes.NewReader(file.Data), int64(len(file.Data)), minio.PutObjectOptions{
		ContentType: contentType,
		UserMetadata: map[string]string{
			"documento": Slug(file.DocumentName),
		},
	})
	if err != nil {
		return fmt.Errorf("upload %s: %w", key, err)
	}

	utils.Info("s3: document uploaded", "bucket", c.bucket, "key", info.Key, "size", info.Size)
	return nil
}

// ListDocuments возвращает файлы продавца (все документы или один по имени).
func (c *Client) ListDocuments(ctx context.Context, userID, documentName string) ([]StoredObject, error) {
	prefix := path.Join(RootPrefix, userID) + "/"
	if documentName != "" {
		prefix = path.Join(RootPrefix, userID, Slug(documentName)) + "/"
	}

	var objects []StoredObject
	opts := minio.ListObjectsOptions{Prefix: prefix, Recursive: true}
	for obj := range c.api.ListObjects(ctx, c.bucket, opts) {
		if obj.Err != nil {
			return nil, fmt.Errorf("list %s: %w", prefix, obj.Err)
		}
		// Пропускаем саму "папку"
		if obj.Key == prefix {
			continue
		}
		objects = append(objects, StoredObject{
			Key:          obj.Key,
			Size:         obj.Size,
			LastModified: obj.LastModified,
		})
	}
	return objects, nil
}

// Slug превращает имя документа в сегмент ключа:
// "Declaração de Aptidão" → "declaracao-de-aptidao".
func Slug(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	plain, _, err := transform.String(t, s)
	if err != nil {
		plain = s
	}

	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(plain) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		default:
			if !dash && b.Len() > 0 {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
