package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dpavlenko/regvault/internal/cryptox"
	sc "github.com/dpavlenko/regvault/internal/server/config"
	"github.com/dpavlenko/regvault/internal/server/models"
	"github.com/dpavlenko/regvault/internal/server/repositories/repomanager"
	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Seams for testing the presign plumbing without hitting AWS.
var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

const presignValidity = 15 * time.Minute

// DocumentService stores legal-document metadata and brokers presigned
// access to the encrypted blobs in object storage. Contents are sealed
// with the AEAD cipher before they leave the service; the store only
// ever sees ciphertext.
type DocumentService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	cipher      *cryptox.AEADCipher
	config      *sc.Config
}

func NewDocumentService(db *sql.DB, m repomanager.RepositoryManager, cipher *cryptox.AEADCipher, cfg *sc.Config) *DocumentService {
	return &DocumentService{
		db:          db,
		repomanager: m,
		cipher:      cipher,
		config:      cfg,
	}
}

func randomStorageKey() string {
	d := time.Now()
	return fmt.Sprintf("documents/%d/%d/%d/%v", d.Year(), d.Month(), d.Day(), uuid.New())
}

func (s *DocumentService) getPresignClient() (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(context.Background(),
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
	})

	return newS3PresignClient(client), nil
}

func (s *DocumentService) presignPut(ctx context.Context, key string) (string, error) {
	presignClient, err := s.getPresignClient()
	if err != nil {
		return "", err
	}

	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket: &s.config.S3Bucket,
		Key:    &key,
	}, s3.WithPresignExpires(presignValidity))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}

func (s *DocumentService) presignGet(ctx context.Context, key string) (string, error) {
	presignClient, err := s.getPresignClient()
	if err != nil {
		return "", err
	}

	req, err := presignGetObject(presignClient, ctx, &s3.GetObjectInput{
		Bucket: &s.config.S3Bucket,
		Key:    &key,
	}, s3.WithPresignExpires(presignValidity))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}

// Create seals the document content, records its metadata, and returns
// the sealed bytes together with an upload task: the caller PUTs the
// ciphertext to the presigned URL and then confirms with MarkUploaded.
func (s *DocumentService) Create(ctx context.Context, companyID, title string, content []byte) (*models.Document, *models.DocumentUploadTask, []byte, error) {
	sealed, err := s.cipher.Encrypt(content)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("error sealing document: %w", err)
	}

	doc := &models.Document{
		CompanyID:  companyID,
		Title:      title,
		StorageKey: randomStorageKey(),
	}

	repo := s.repomanager.Documents(s.db)

	doc, err = repo.Create(ctx, doc)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("error creating document: %w", err)
	}

	url, err := s.presignPut(ctx, doc.StorageKey)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("error presigning upload: %w", err)
	}

	task := &models.DocumentUploadTask{DocumentID: doc.ID, URL: url}
	return doc, task, sealed, nil
}

// Get returns document metadata by id.
func (s *DocumentService) Get(ctx context.Context, id string) (*models.Document, error) {
	return s.repomanager.Documents(s.db).GetByID(ctx, id)
}

// MarkUploaded confirms that the ciphertext blob reached object storage.
func (s *DocumentService) MarkUploaded(ctx context.Context, id string) error {
	return s.repomanager.Documents(s.db).MarkUploaded(ctx, id)
}

// GetDownloadURL returns a presigned GET URL for the encrypted blob. The
// caller decrypts the downloaded content with Unseal.
func (s *DocumentService) GetDownloadURL(ctx context.Context, id string) (*models.Document, string, error) {
	doc, err := s.repomanager.Documents(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}

	url, err := s.presignGet(ctx, doc.StorageKey)
	if err != nil {
		return nil, "", fmt.Errorf("error presigning download: %w", err)
	}

	return doc, url, nil
}

// Unseal decrypts document content previously sealed by Create.
func (s *DocumentService) Unseal(sealed []byte) ([]byte, error) {
	return s.cipher.Decrypt(sealed)
}
