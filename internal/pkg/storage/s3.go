package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"github.com/gustavolopes/lojify/internal/pkg/apperr"
	"github.com/gustavolopes/lojify/internal/pkg/env"
)

// Product images are resized so the catalog never serves originals larger
// than this edge.
const maxImageEdge = 1024

const uploadTimeout = 30 * time.Second

// Config holds the object storage connection settings.
type Config struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	EndpointURL     string
	Bucket          string
	PublicBaseURL   string
}

// ConfigFromEnv reads the S3 settings from the environment.
func ConfigFromEnv() *Config {
	return &Config{
		Region:          env.GetEnv("S3_REGION", "us-east-1"),
		AccessKeyID:     env.GetEnv("S3_ACCESS_KEY_ID", ""),
		SecretAccessKey: env.GetEnv("S3_SECRET_ACCESS_KEY", ""),
		EndpointURL:     env.GetEnv("S3_ENDPOINT_URL", ""),
		Bucket:          env.GetEnv("S3_BUCKET", "lojify-media"),
		PublicBaseURL:   strings.TrimRight(env.GetEnv("S3_PUBLIC_BASE_URL", ""), "/"),
	}
}

// IsEnabled reports whether credentials are configured. Without them product
// uploads are rejected instead of half-working.
func (c *Config) IsEnabled() bool {
	return c.AccessKeyID != "" && c.SecretAccessKey != ""
}

// ImageStore uploads product images to S3-compatible object storage.
type ImageStore struct {
	s3Client *s3.Client
	config   *Config
}

// NewImageStore creates the store from explicit config.
func NewImageStore(cfg *Config) (*ImageStore, error) {
	if !cfg.IsEnabled() {
		return nil, apperr.Validation("armazenamento de imagens não configurado")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, apperr.Provider("falha ao configurar cliente S3", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.EndpointURL != "" {
			o.BaseEndpoint = aws.String(cfg.EndpointURL)
			o.UsePathStyle = true
		}
	})

	return &ImageStore{s3Client: client, config: cfg}, nil
}

// UploadProductImage decodes the uploaded file, downsizes it and stores it
// under products/{storeUUID}/. Returns the public URL.
func (st *ImageStore) UploadProductImage(ctx context.Context, storeUUID string, fileHeader *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	format, err := formatForExt(ext)
	if err != nil {
		return "", err
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", apperr.Validation("não foi possível ler o arquivo enviado")
	}
	defer file.Close()

	img, err := imaging.Decode(file, imaging.AutoOrientation(true))
	if err != nil {
		return "", apperr.Validation("arquivo não é uma imagem válida")
	}
	if img.Bounds().Dx() > maxImageEdge || img.Bounds().Dy() > maxImageEdge {
		img = imaging.Fit(img, maxImageEdge, maxImageEdge, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, format, imaging.JPEGQuality(85)); err != nil {
		return "", apperr.Provider("falha ao codificar imagem", err)
	}

	key := fmt.Sprintf("products/%s/%s%s", storeUUID, uuid.New().String(), ext)
	if err := st.putObject(ctx, key, &buf, contentTypeForExt(ext)); err != nil {
		return "", err
	}
	return st.publicURL(key), nil
}

func (st *ImageStore) putObject(ctx context.Context, key string, body io.Reader, contentType string) error {
	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	_, err := st.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(st.config.Bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return apperr.Provider("falha ao enviar imagem para o armazenamento", err)
	}
	return nil
}

func (st *ImageStore) publicURL(key string) string {
	if st.config.PublicBaseURL != "" {
		return st.config.PublicBaseURL + "/" + key
	}
	if st.config.EndpointURL != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(st.config.EndpointURL, "/"), st.config.Bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", st.config.Bucket, st.config.Region, key)
}

func formatForExt(ext string) (imaging.Format, error) {
	switch ext {
	case ".jpg", ".jpeg":
		return imaging.JPEG, nil
	case ".png":
		return imaging.PNG, nil
	case ".gif":
		return imaging.GIF, nil
	}
	return 0, apperr.Validation("formato de imagem não suportado: " + ext)
}

func contentTypeForExt(ext string) string {
	switch ext {
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	}
	return "image/jpeg"
}
