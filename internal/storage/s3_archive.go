package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"
)

// S3Archive keeps a copy of every rendered document in S3-compatible storage
type S3Archive struct {
	s3Client *s3.S3
	bucket   string
	endpoint string
	region   string
}

// Config holds configuration for the S3 archive
type Config struct {
	Endpoint        string // empty for AWS itself
	AccessKeyID     string
	AccessKeySecret string
	Bucket          string
	Region          string
}

// NewS3Archive creates a new S3 archive
func NewS3Archive(config *Config) (*S3Archive, error) {
	if config.AccessKeyID == "" || config.AccessKeySecret == "" {
		return nil, fmt.Errorf("S3 configuration is incomplete")
	}

	if config.Bucket == "" {
		return nil, fmt.Errorf("S3 bucket is not configured")
	}

	awsConfig := &aws.Config{
		Region:      aws.String(config.Region),
		Credentials: credentials.NewStaticCredentials(config.AccessKeyID, config.AccessKeySecret, ""),
	}
	if config.Endpoint != "" {
		awsConfig.Endpoint = aws.String(config.Endpoint)
		awsConfig.S3ForcePathStyle = aws.Bool(true)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 session: %w", err)
	}

	return &S3Archive{
		s3Client: s3.New(sess),
		bucket:   config.Bucket,
		endpoint: strings.TrimRight(config.Endpoint, "/"),
		region:   config.Region,
	}, nil
}

// Archive uploads a PDF under key and returns its URL
func (a *S3Archive) Archive(ctx context.Context, key string, data []byte) (string, error) {
	_, err := a.s3Client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(a.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String("application/pdf"),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	return a.ObjectURL(key), nil
}

// ObjectURL returns the URL of key in the archive bucket
func (a *S3Archive) ObjectURL(key string) string {
	escaped := (&url.URL{Path: key}).EscapedPath()
	if a.endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", a.endpoint, a.bucket, escaped)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", a.bucket, a.region, escaped)
}

var unsafeKeyChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// ObjectKey builds a unique key for a rendered invoice:
// invoices/<user>/<yyyy>/<mm>/<invoice-number>-<uuid>.pdf
func ObjectKey(userID, invoiceNumber string, at time.Time) string {
	owner := unsafeKeyChars.ReplaceAllString(userID, "_")
	if owner == "" {
		owner = "anonymous"
	}
	number := strings.Trim(unsafeKeyChars.ReplaceAllString(invoiceNumber, "-"), "-")
	if number == "" {
		number = "invoice"
	}
	at = at.UTC()
	return path.Join("invoices", owner, at.Format("2006"), at.Format("01"), number+"-"+uuid.NewString()+".pdf")
}
