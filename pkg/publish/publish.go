// Package publish uploads the route manifest of an application to S3 so
// deploy tooling and CDNs can discover the routes a build serves.
package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/ostinato-fm/ostinato/pkg/routetree"
)

// ObjectPutter is the slice of the S3 API the publisher needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Entry describes one route in the published manifest.
type Entry struct {
	Pattern   string `json:"pattern"`
	Index     bool   `json:"index,omitempty"`
	HasLoader bool   `json:"has_loader,omitempty"`
}

// Manifest is the document written to S3.
type Manifest struct {
	GeneratedAt time.Time `json:"generated_at"`
	BaseURL     string    `json:"base_url,omitempty"`
	Routes      []Entry   `json:"routes"`
}

// Publisher writes route manifests to one bucket and prefix.
type Publisher struct {
	client  ObjectPutter
	bucket  string
	prefix  string
	baseURL string
	now     func() time.Time
}

// Option configures a Publisher.
type Option func(*Publisher)

// WithBaseURL records the public base URL of the deployment in the manifest.
func WithBaseURL(u string) Option {
	return func(p *Publisher) { p.baseURL = u }
}

// WithClock overrides the manifest timestamp source.
func WithClock(now func() time.Time) Option {
	return func(p *Publisher) { p.now = now }
}

// New builds a publisher targeting bucket under prefix.
func New(client ObjectPutter, bucket, prefix string, opts ...Option) *Publisher {
	p := &Publisher{
		client: client,
		bucket: bucket,
		prefix: prefix,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewS3Client builds an S3 client for region using credentials from the
// environment (AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY, AWS_SESSION_TOKEN).
func NewS3Client(region string) *s3.Client {
	return s3.New(s3.Options{
		Region: region,
		Credentials: aws.CredentialsProviderFunc(func(ctx context.Context) (aws.Credentials, error) {
			creds := aws.Credentials{
				AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
				SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
				SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
				Source:          "environment",
			}
			if creds.AccessKeyID == "" || creds.SecretAccessKey == "" {
				return aws.Credentials{}, fmt.Errorf("publish: AWS credentials not set in environment")
			}
			return creds, nil
		}),
	})
}

// BuildManifest flattens a route table into a manifest document.
func (p *Publisher) BuildManifest(routes []*routetree.Node) *Manifest {
	m := &Manifest{
		GeneratedAt: p.now().UTC(),
		BaseURL:     p.baseURL,
	}
	for _, info := range routetree.Flatten(routes) {
		m.Routes = append(m.Routes, Entry{
			Pattern:   info.Pattern,
			Index:     info.Index,
			HasLoader: info.HasLoader,
		})
	}
	return m
}

// Publish writes the manifest for routes to <prefix>/routes.json and returns
// the object key.
func (p *Publisher) Publish(ctx context.Context, routes []*routetree.Node) (string, error) {
	manifest := p.BuildManifest(routes)

	body, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return "", fmt.Errorf("publish: encode manifest: %w", err)
	}

	key := p.key("routes.json")
	_, err = p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(p.bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(body),
		ContentType:  aws.String("application/json"),
		CacheControl: aws.String("no-cache"),
	})
	if err != nil {
		return "", fmt.Errorf("publish: upload manifest to s3://%s/%s: %w", p.bucket, key, err)
	}
	return key, nil
}

func (p *Publisher) key(name string) string {
	if p.prefix == "" {
		return name
	}
	return strings.TrimSuffix(p.prefix, "/") + "/" + name
}
