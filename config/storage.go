package config

import (
	"sync"
)

var (
	minioOnce   sync.Once
	minioConfig *MinioConfig
)

type MinioConfig struct {
	Endpoint   string
	AccessKey  string
	SecretKey  string
	UseSSL     bool
	Region     string
	BucketName string
}

func GetMinioConfig() *MinioConfig {
	minioOnce.Do(func() {
		loadEnv()
		minioConfig = &MinioConfig{
			Endpoint:   getenv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey:  getenv("MINIO_ACCESS_KEY", ""),
			SecretKey:  getenv("MINIO_SECRET_KEY", ""),
			UseSSL:     getenvBool("MINIO_USE_SSL", false),
			Region:     getenv("MINIO_REGION", ""),
			BucketName: getenv("MINIO_BUCKET_NAME", "invoices"),
		}
	})
	return minioConfig
}

var (
	s3Once   sync.Once
	s3Config *S3Config
)

type S3Config struct {
	Region     string
	Endpoint   string
	AccessKey  string
	SecretKey  string
	BucketName string
}

func GetS3Config() *S3Config {
	s3Once.Do(func() {
		loadEnv()
		s3Config = &S3Config{
			Region:     getenv("AWS_REGION", "us-east-1"),
			Endpoint:   getenv("AWS_ENDPOINT", ""),
			AccessKey:  getenv("AWS_ACCESS_KEY", ""),
			SecretKey:  getenv("AWS_SECRET_KEY", ""),
			BucketName: getenv("S3_BUCKET_NAME", "invoices"),
		}
	})
	return s3Config
}
