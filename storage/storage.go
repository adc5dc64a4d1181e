package storage

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"

	"github.com/silinternational/claims-settlement-api/domain"
)

// ObjectURL is a pre-signed link to a stored object
type ObjectURL struct {
	URL        string
	Expiration time.Time
}

type awsConfig struct {
	awsAccessKeyID     string
	awsSecretAccessKey string
	awsEndpoint        string
	awsRegion          string
	awsS3Bucket        string
	awsDisableSSL      bool
}

func getS3ConfigFromEnv() awsConfig {
	a := awsConfig{
		awsAccessKeyID:     domain.Env.AwsAccessKeyID,
		awsSecretAccessKey: domain.Env.AwsSecretAccessKey,
		awsEndpoint:        domain.Env.AwsS3Endpoint,
		awsRegion:          domain.Env.AwsRegion,
		awsS3Bucket:        domain.Env.AwsS3Bucket,
		awsDisableSSL:      domain.Env.AwsS3DisableSSL,
	}

	if domain.Env.GoEnv == domain.EnvDevelopment || domain.Env.GoEnv == domain.EnvTest {
		a.awsAccessKeyID = "abc123"
		a.awsSecretAccessKey = "abcd1234"
	}
	return a
}

func createS3Service(config awsConfig) (*s3.S3, error) {
	sess, err := session.NewSession(&aws.Config{
		Credentials:      credentials.NewStaticCredentials(config.awsAccessKeyID, config.awsSecretAccessKey, ""),
		Endpoint:         aws.String(config.awsEndpoint),
		Region:           aws.String(config.awsRegion),
		DisableSSL:       aws.Bool(config.awsDisableSSL),
		S3ForcePathStyle: aws.Bool(len(config.awsEndpoint) > 0),
	})
	if err != nil {
		return nil, err
	}
	return s3.New(sess), nil
}

// Enabled reports whether a bucket is configured for archiving
func Enabled() bool {
	return domain.Env.AwsS3Bucket != ""
}

// BatchKey is the object key of the guarantee fund ledger batch of the month that contains the given date
func BatchKey(provider string, month time.Time) string {
	return fmt.Sprintf("ledger/%s/guarantee_fund_%s.csv", provider, month.Format("2006-01"))
}

// StoreFile saves content in the configured S3 bucket, or a compatible storage such as minIO, and returns a
// pre-signed URL to it
func StoreFile(key, contentType string, content []byte) (ObjectURL, error) {
	if !Enabled() {
		return ObjectURL{}, errors.New("no storage bucket configured")
	}

	config := getS3ConfigFromEnv()
	svc, err := createS3Service(config)
	if err != nil {
		return ObjectURL{}, err
	}

	if _, err := svc.PutObject(&s3.PutObjectInput{
		Bucket:      aws.String(config.awsS3Bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
		Body:        bytes.NewReader(content),
	}); err != nil {
		return ObjectURL{}, fmt.Errorf("error storing %s, %w", key, err)
	}

	return getObjectURL(config, svc, key)
}

func getObjectURL(config awsConfig, svc *s3.S3, key string) (ObjectURL, error) {
	req, _ := svc.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(config.awsS3Bucket),
		Key:    aws.String(key),
	})

	urlLifespan := time.Duration(domain.Env.AwsS3URLLifeMinutes) * time.Minute
	u, err := req.Presign(urlLifespan)
	if err != nil {
		return ObjectURL{}, err
	}

	// report an expiration slightly before the real one to account for delays
	return ObjectURL{URL: u, Expiration: time.Now().Add(urlLifespan - time.Minute)}, nil
}

// CreateS3Bucket creates the configured bucket. If the bucket already exists, it will not return an error.
func CreateS3Bucket() error {
	env := domain.Env.GoEnv
	if env != domain.EnvTest && env != domain.EnvDevelopment {
		return errors.New("CreateS3Bucket should only be used in test and development")
	}

	config := getS3ConfigFromEnv()
	svc, err := createS3Service(config)
	if err != nil {
		return err
	}

	if _, err := svc.CreateBucket(&s3.CreateBucketInput{Bucket: aws.String(config.awsS3Bucket)}); err != nil {
		var aerr awserr.Error
		if errors.As(err, &aerr) {
			switch aerr.Code() {
			case s3.ErrCodeBucketAlreadyExists, s3.ErrCodeBucketAlreadyOwnedByYou:
				return nil
			}
		}
		return err
	}
	return nil
}
