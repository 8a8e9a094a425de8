/* Copyright (c) 2013 The s3cache AUTHORS. All rights reserved.
 * Copyright (c) 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file in the current directory for license terms
 *
 * Package s3cache stores and retrieves objects in Amazon S3. A Cache serves
 * both as an implementation of httpcache.Cache (keys are hashed under the
 * s3cache/ prefix) and as a plain object store for saved competition
 * documents (keys are used as given). It is based on the original
 * github.com/sourcegraph/s3cache but updated to use aws-sdk-go-v2.
 */
package s3cache

import (
	"bytes"
	"compress/gzip"
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

// ErrNotFound is returned by GetObject when the key does not exist.
var ErrNotFound = errors.New("object not found")

// Cache objects store and retrieve data using Amazon S3.
type Cache struct {
	// Config is the Amazon S3 configuration.
	Config aws.Config

	// Client is the s3 client the cache should used when interacting with S3.
	// By default this is initialized in Init() with the default Config, but
	// callers can optionally override this with their own s3 client if desired.
	Client *s3.Client

	// bucketName is the name of the S3 bucket, e.g. "mybucket".
	bucketName string

	// gzip indicates whether objects should be gzipped on write and
	// gunzipped on read. If true, object keys get the suffix ".gz".
	gzip bool

	// LogErrors controls whether httpcache adapter errors should be logged
	logErrors bool

	// The context used by the httpcache.Cache adapter methods
	ctx context.Context
}

// New returns a new Cache with underlying storage in the specified Amazon S3
// bucket. Additionally, specify whether persisted objects should be
// compressed with gzip or not. Callers should take care to invoke Init() on
// the returned Cache object before use
func New(ctxIn context.Context, bucketNameIn string, gzipIn bool,
	logErrorsIn bool) *Cache {

	return &Cache{
		ctx:        ctxIn,
		bucketName: bucketNameIn,
		gzip:       gzipIn,
		logErrors:  logErrorsIn,
	}
}

// The default configuration sources are:
// * Environment Variables (e.g. AWS_ACCESS_KEY_ID and AWS_SECRET_KEY)
// * Shared Configuration and Shared Credentials files.
// To use different credentials, modify the returned Cache object's
// Config and Client fields.
func (c *Cache) Init() error {
	var err error
	c.Config, err = config.LoadDefaultConfig(c.ctx)
	if err != nil {
		return fmt.Errorf("s3cache.init: failed to load AWS config: %w", err)
	}
	c.Client = s3.NewFromConfig(c.Config)

	// Permission check: verify bucket exists and is accessible
	if _, err = c.Client.HeadBucket(c.ctx, &s3.HeadBucketInput{
		Bucket: aws.String(c.bucketName),
	}); err != nil {
		return fmt.Errorf("s3cache.init: head bucket failed for %s: %w", c.bucketName, err)
	}

	// Permission check: verify ability to list objects (read/list permissions)
	if _, err = c.Client.ListObjectsV2(c.ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(c.bucketName),
		MaxKeys: aws.Int32(1),
	}); err != nil {
		return fmt.Errorf("s3cache.init: list objects failed for %s: %w", c.bucketName, err)
	}

	return nil
}

func (c *Cache) Bucket() string {
	return c.bucketName
}

func (c *Cache) objectKey(key string) string {
	key = strings.TrimPrefix(key, "/")
	if c.gzip {
		key += ".gz"
	}

	return key
}

// GetObject reads the object stored under key. A missing key yields an error
// wrapping ErrNotFound.
func (c *Cache) GetObject(ctx context.Context, key string) ([]byte, error) {
	input := &s3.GetObjectInput{
		Bucket: aws.String(c.bucketName),
		Key:    aws.String(c.objectKey(key)),
	}

	resp, err := c.Client.GetObject(ctx, input)
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "NoSuchKey" {
			return nil, fmt.Errorf("%v/%v: %w", c.bucketName, *input.Key,
				ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get object %v/%v: %w", c.bucketName,
			*input.Key, err)
	}
	defer resp.Body.Close()

	rdr := resp.Body
	if c.gzip {
		rdr, err = gzip.NewReader(rdr)
		if err != nil {
			return nil, fmt.Errorf("failed to open compressed object %v/%v: %w",
				c.bucketName, *input.Key, err)
		}
		defer rdr.Close()
	}
	data, err := io.ReadAll(rdr)
	if err != nil {
		return nil, fmt.Errorf("failed to read object %v/%v: %w", c.bucketName,
			*input.Key, err)
	}

	return data, nil
}

// PutObject stores data under key, replacing any previous object.
func (c *Cache) PutObject(ctx context.Context, key string, data []byte) error {
	input := &s3.PutObjectInput{
		Bucket: aws.String(c.bucketName),
		Key:    aws.String(c.objectKey(key)),
		Body:   bytes.NewReader(data),
	}

	if c.gzip {
		var buf bytes.Buffer
		gw := gzip.NewWriter(&buf)
		if _, err := gw.Write(data); err != nil {
			return fmt.Errorf("failed to gzip data for %v/%v: %w", c.bucketName,
				*input.Key, err)
		}
		if err := gw.Close(); err != nil {
			return fmt.Errorf("failed to close gzip writer for %v/%v: %w",
				c.bucketName, *input.Key, err)
		}
		input.Body = &buf
		input.ContentEncoding = aws.String("gzip")
	}

	if _, err := c.Client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("put failed for %v/%v: %w", c.bucketName, *input.Key,
			err)
	}

	return nil
}

func (c *Cache) DeleteObject(ctx context.Context, key string) error {
	input := &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucketName),
		Key:    aws.String(c.objectKey(key)),
	}

	if _, err := c.Client.DeleteObject(ctx, input); err != nil {
		return fmt.Errorf("delete failed for %v/%v: %w", c.bucketName,
			*input.Key, err)
	}

	return nil
}

// ListObjects returns the keys below prefix, with the ".gz" suffix removed
// when compression is enabled.
func (c *Cache) ListObjects(ctx context.Context, prefix string) ([]string, error) {
	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(c.bucketName),
		Prefix: aws.String(strings.TrimPrefix(prefix, "/")),
	}

	var keys []string
	paginator := s3.NewListObjectsV2Paginator(c.Client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list failed for %v/%v: %w", c.bucketName,
				*input.Prefix, err)
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if c.gzip {
				if !strings.HasSuffix(key, ".gz") {
					continue
				}
				key = strings.TrimSuffix(key, ".gz")
			}
			keys = append(keys, key)
		}
	}

	return keys, nil
}

// Get implements httpcache.Cache.
func (c *Cache) Get(key string) ([]byte, bool) {
	data, err := c.GetObject(c.ctx, cacheKeyToObjectKey(key))
	if err != nil {
		// no such key just indicates a cache miss
		if c.logErrors && !errors.Is(err, ErrNotFound) {
			log.Printf("s3cache.get: %v", err)
		}
		return []byte{}, false
	}

	return data, true
}

// Set implements httpcache.Cache.
func (c *Cache) Set(key string, data []byte) {
	err := c.PutObject(c.ctx, cacheKeyToObjectKey(key), data)
	if err != nil && c.logErrors {
		log.Printf("s3cache.set: %v", err)
	}
}

// Delete implements httpcache.Cache.
func (c *Cache) Delete(key string) {
	err := c.DeleteObject(c.ctx, cacheKeyToObjectKey(key))
	if err != nil && c.logErrors {
		log.Printf("s3cache.delete: %v", err)
	}
}

func cacheKeyToObjectKey(key string) string {
	const PathPrefix = "s3cache"

	h := md5.New()
	io.WriteString(h, key)

	return fmt.Sprintf("%v/%v", PathPrefix, hex.EncodeToString(h.Sum(nil)))
}
