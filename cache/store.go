// Package cache stores translated modules in SQLite so unchanged inputs are
// not translated again.
//
// Entries are keyed by a digest of the module path and AST document together
// with every option that changes generated output and the version of the
// translator that produced it. The diagnostic file name is left out, since
// only successful translations are stored.
package cache

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/teranos/pyrust/assembler"
	"github.com/teranos/pyrust/codegen"
	"github.com/teranos/pyrust/errors"
	"github.com/teranos/pyrust/logger"
	"github.com/teranos/pyrust/version"
)

// Store is a translation cache backed by a SQLite database.
type Store struct {
	db     *sql.DB
	logger *zap.SugaredLogger
	now    func() time.Time
}

// NewStore wraps an open, migrated database.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db, logger: logger.ComponentLogger("cache"), now: time.Now}
}

// OpenStore opens (creating if needed) the cache at path.
func OpenStore(path string) (*Store, error) {
	db, err := OpenWithMigrations(path, logger.ComponentLogger("cache"))
	if err != nil {
		return nil, err
	}
	return NewStore(db), nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Key derives the cache key for the AST document of the module at path
// translated with opts.
func Key(path string, document []byte, opts codegen.Options) string {
	h := sha256.New()
	h.Write([]byte(path))
	h.Write([]byte{0})
	h.Write(document)
	h.Write([]byte{0})
	h.Write([]byte(fingerprint(opts)))
	return hex.EncodeToString(h.Sum(nil))
}

// fingerprint renders the translator build and the output-affecting options
// in a fixed order.
func fingerprint(opts codegen.Options) string {
	build := version.Get()
	return strings.Join([]string{
		build.Version,
		build.CommitHash,
		opts.NamespacePrefix,
		strings.Join(opts.ModuleSearchPath, ":"),
		opts.RuntimeShim,
		fmt.Sprint(opts.EmitRuntimeShimImport),
		opts.AsyncRuntime.Attribute(),
		opts.AsyncRuntime.Import(),
		fmt.Sprint(opts.AllowUnsafe),
		strings.Join(opts.ElideModules, ","),
	}, "\x1f")
}

// Get returns the cached result for key. A missing entry is reported with
// errors.ErrNotFound.
func (s *Store) Get(ctx context.Context, key string) (*assembler.Result, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT run_id, module, path, source, async, entry_point, renamed, imports
		FROM translations WHERE key = ?`, key)

	var (
		res              assembler.Result
		renamed, imports string
	)
	err := row.Scan(&res.ID, &res.Name, &res.Path, &res.Source, &res.Async, &res.EntryPoint, &renamed, &imports)
	if errors.Is(err, sql.ErrNoRows) {
		s.logger.Debugw("cache miss", logger.FieldDigest, short(key))
		return nil, errors.NewNotFoundError("no cached translation for %s", short(key))
	}
	if err != nil {
		return nil, errors.Wrapf(err, "read cached translation %s", short(key))
	}
	if res.Renamed, err = decodeList(renamed); err != nil {
		return nil, errors.Wrap(err, "decode renamed names")
	}
	if res.Imports, err = decodeList(imports); err != nil {
		return nil, errors.Wrap(err, "decode imports")
	}

	s.logger.Debugw("cache hit", logger.FieldModule, res.Name, logger.FieldDigest, short(key))
	return &res, nil
}

// Put stores res under key, replacing any previous entry.
func (s *Store) Put(ctx context.Context, key string, res *assembler.Result) error {
	if res == nil {
		return errors.NewInvalidInputError("no result to cache")
	}
	renamed, err := json.Marshal(nonNil(res.Renamed))
	if err != nil {
		return errors.Wrap(err, "encode renamed names")
	}
	imports, err := json.Marshal(nonNil(res.Imports))
	if err != nil {
		return errors.Wrap(err, "encode imports")
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO translations
			(key, run_id, module, path, source, async, entry_point, renamed, imports, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		key, res.ID, res.Name, res.Path, res.Source, res.Async, res.EntryPoint,
		string(renamed), string(imports), s.now().UTC(),
	)
	if err != nil {
		return errors.Wrapf(err, "store translation of %s", res.Name)
	}
	s.logger.Debugw("stored translation", logger.FieldModule, res.Name, logger.FieldDigest, short(key))
	return nil
}

// Prune deletes entries created before cutoff and reports how many went.
func (s *Store) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	r, err := s.db.ExecContext(ctx, `DELETE FROM translations WHERE created_at < ?`, cutoff.UTC())
	if err != nil {
		return 0, errors.Wrap(err, "prune translations")
	}
	n, err := r.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "prune translations")
	}
	if n > 0 {
		s.logger.Infow("pruned cache", logger.FieldCount, n)
	}
	return n, nil
}

// Stats summarizes the cache contents.
type Stats struct {
	Entries int `json:"entries"`
	Modules int `json:"modules"`
}

// Stats counts entries and distinct modules.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COUNT(DISTINCT module) FROM translations`,
	).Scan(&st.Entries, &st.Modules)
	if err != nil {
		return Stats{}, errors.Wrap(err, "count translations")
	}
	return st, nil
}

// decodeList reads a JSON string array, returning nil for an empty one.
func decodeList(text string) ([]string, error) {
	var list []string
	if err := json.Unmarshal([]byte(text), &list); err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func short(key string) string {
	if len(key) > 12 {
		return key[:12]
	}
	return key
}
