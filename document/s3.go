/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package document

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/mikeb26/stocksport-td/internal"
	"github.com/mikeb26/stocksport-td/s3cache"
)

const s3Prefix = "competitions/"

// S3Store keeps documents as objects below competitions/ in an S3 bucket.
type S3Store struct {
	cache *s3cache.Cache
}

// NewS3Store connects to bucket using the default AWS configuration.
func NewS3Store(ctx context.Context, bucket string, gzip bool) (*S3Store, error) {
	cache := s3cache.New(ctx, bucket, gzip, true)
	if err := cache.Init(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	return &S3Store{cache: cache}, nil
}

func objectKey(name string) string {
	return path.Join(s3Prefix, name+internal.DocumentExt)
}

func (s *S3Store) Save(ctx context.Context, name string, doc *Document) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	data, err := doc.Marshal()
	if err != nil {
		return fmt.Errorf("%w: %v: %w", ErrPersistence, name, err)
	}
	if err := s.cache.PutObject(ctx, objectKey(name), data); err != nil {
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	return nil
}

func (s *S3Store) Load(ctx context.Context, name string) (*Document, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	data, err := s.cache.GetObject(ctx, objectKey(name))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	doc, err := unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("s3://%v/%v: %w", s.cache.Bucket(),
			objectKey(name), err)
	}

	return doc, nil
}

func (s *S3Store) List(ctx context.Context) ([]string, error) {
	keys, err := s.cache.ListObjects(ctx, s3Prefix)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	var names []string
	for _, key := range keys {
		if !strings.HasSuffix(key, internal.DocumentExt) {
			continue
		}
		names = append(names, strings.TrimSuffix(strings.TrimPrefix(key,
			s3Prefix), internal.DocumentExt))
	}
	sort.Strings(names)

	return names, nil
}
