package backupstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/jhoicas/billmaker-api/internal/application/backup"
	"github.com/jhoicas/billmaker-api/internal/domain"
	appconfig "github.com/jhoicas/billmaker-api/pkg/config"
	"github.com/jhoicas/billmaker-api/pkg/logger"
)

// S3Store guarda los respaldos en un bucket S3 compatible (AWS, MinIO, R2...).
type S3Store struct {
	client *s3.Client
	bucket string
	prefix string
	log    *logger.Logger
}

var _ backup.BackupStore = (*S3Store)(nil)

// S3Option opción funcional de S3Store.
type S3Option func(*S3Store)

// WithLogger reemplaza el logger por defecto (Nop).
func WithLogger(log *logger.Logger) S3Option {
	return func(s *S3Store) { s.log = log.Component("backup_s3") }
}

// WithClient inyecta un cliente ya construido.
func WithClient(c *s3.Client) S3Option {
	return func(s *S3Store) { s.client = c }
}

// NewS3Store construye el cliente con credenciales estáticas y endpoint propio.
func NewS3Store(ctx context.Context, cfg appconfig.S3Config, opts ...S3Option) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("backupstore: bucket requerido")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, errors.New("backupstore: credenciales S3 requeridas")
	}
	s := &S3Store{
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
		log:    logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.client != nil {
		return s, nil
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("backupstore: config aws: %w", err)
	}

	endpoint := cfg.Endpoint
	if endpoint != "" && !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}
	if endpoint != "" {
		if _, err := url.Parse(endpoint); err != nil {
			return nil, fmt.Errorf("backupstore: endpoint inválido: %w", err)
		}
	}
	s.client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
	return s, nil
}

func (s *S3Store) key(name string) string { return s.prefix + name }

func (s *S3Store) Put(ctx context.Context, name string, data []byte) error {
	contentType := "application/json"
	if strings.HasSuffix(name, ".gz") {
		contentType = "application/gzip"
	}
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key(name)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("backupstore: subir %s: %w", name, err)
	}
	s.log.Debug().Str("bucket", s.bucket).Str("key", s.key(name)).Int("bytes", len(data)).Msg("respaldo subido")
	return nil
}

func (s *S3Store) Get(ctx context.Context, name string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(name)),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: respaldo %s", domain.ErrNotFound, name)
		}
		return nil, fmt.Errorf("backupstore: descargar %s: %w", name, err)
	}
	defer out.Body.Close()
	return io.ReadAll(out.Body)
}

// List recorre todas las páginas bajo el prefijo.
func (s *S3Store) List(ctx context.Context) ([]backup.StoredObject, error) {
	var out []backup.StoredObject
	p := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.prefix),
	})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("backupstore: listar: %w", err)
		}
		for _, obj := range page.Contents {
			name := strings.TrimPrefix(aws.ToString(obj.Key), s.prefix)
			if name == "" || strings.Contains(name, "/") {
				continue
			}
			out = append(out, backup.StoredObject{
				Name:       name,
				Size:       aws.ToInt64(obj.Size),
				ModifiedAt: aws.ToTime(obj.LastModified),
			})
		}
	}
	return out, nil
}

func (s *S3Store) Delete(ctx context.Context, name string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(name)),
	})
	if err != nil && !isNotFound(err) {
		return fmt.Errorf("backupstore: eliminar %s: %w", name, err)
	}
	return nil
}

func isNotFound(err error) bool {
	var notFound *types.NotFound
	var noSuchKey *types.NoSuchKey
	return errors.As(err, &notFound) || errors.As(err, &noSuchKey)
}
