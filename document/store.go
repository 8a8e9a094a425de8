/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package document

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/mikeb26/stocksport-td/competition"
	"github.com/mikeb26/stocksport-td/internal"
)

var ErrUnknownStore = errors.New("unknown store")

// Store persists documents by competition name. Failures wrap ErrPersistence
// for I/O and ErrParse for malformed content; a failed Save never affects
// the caller's in-memory competition.
type Store interface {
	Save(ctx context.Context, name string, doc *Document) error
	Load(ctx context.Context, name string) (*Document, error)
	List(ctx context.Context) ([]string, error)
}

// ValidateName rejects names that cannot be used as a file name or object
// key.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: empty competition name", ErrPersistence)
	}
	if strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return fmt.Errorf("%w: invalid competition name %q", ErrPersistence, name)
	}

	return nil
}

// SaveCompetition snapshots c and saves it under name.
func SaveCompetition(ctx context.Context, s Store, name string,
	c *competition.Competition) error {

	return s.Save(ctx, name, FromCompetition(c))
}

// LoadCompetition loads the document saved under name and rebuilds the
// model.
func LoadCompetition(ctx context.Context, s Store,
	name string) (*competition.Competition, error) {

	doc, err := s.Load(ctx, name)
	if err != nil {
		return nil, err
	}
	c, err := doc.Competition()
	if err != nil {
		return nil, fmt.Errorf("%v: %w", name, err)
	}

	return c, nil
}

// Open returns the backend named by kind ("file", "s3" or "sqlite")
// configured from cfg. The returned func releases it.
func Open(ctx context.Context, kind string, cfg *internal.Config) (Store,
	func(), error) {

	switch kind {
	case "file":
		return NewFileStore(cfg.DataDir), func() {}, nil
	case "s3":
		if cfg.S3Bucket == "" {
			return nil, nil, fmt.Errorf("%w: STOCKTD_S3_BUCKET is not set",
				ErrPersistence)
		}
		s, err := NewS3Store(ctx, cfg.S3Bucket, cfg.S3Gzip)
		if err != nil {
			return nil, nil, err
		}
		return s, func() {}, nil
	case "sqlite":
		s, err := OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return s, func() {
			if err := s.Close(); err != nil {
				log.Printf("document.open: failed to close %v: %v",
					cfg.SQLitePath, err)
			}
		}, nil
	}

	return nil, nil, fmt.Errorf("%w %q; expected file, s3 or sqlite",
		ErrUnknownStore, kind)
}
