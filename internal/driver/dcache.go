package driver

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"errtax"
	"errtax/internal/ast"
	"errtax/internal/emit"
	"errtax/internal/msgfmt"
	"errtax/internal/source"
)

// Digest identifies cached content: the sha256 of the source file.
type Digest [32]byte

// Current schema version - increment when cachedArtifact format changes.
const diskCacheSchemaVersion uint16 = 1

// DiskCache хранит скомпилированные артефакты по хешу содержимого файла.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// cachedArtifact is the serialized form of emit.Artifact. Шаблоны
// хранятся исходным текстом и перекомпилируются при чтении: они уже
// прошли валидацию, так что повторная компиляция не может упасть, а
// спаны после восстановления пустые (генератору кода они не нужны).
type cachedArtifact struct {
	Schema   uint16
	Name     string
	Generics string
	Docs     []cachedDocLine
	Variants []cachedVariant
}

type cachedDocLine struct {
	Indent int
	Text   string
}

type cachedVariant struct {
	Ident      string
	ShapeKind  uint8
	FieldNames []string
	FieldTypes []string
	Kind       uint8
	Number     string
	Msg        string
	Label      string
	Nested     bool
	SpanField  bool
	SpanIndex  int
	SpanName   string
}

// OpenDiskCache initializes and returns a disk cache at the standard
// location: $XDG_CACHE_HOME/<app> (or ~/.cache/<app>).
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// OpenDiskCacheAt opens the cache in an explicit directory. Тесты и
// --cache-dir ходят сюда, минуя XDG.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) pathFor(key Digest) string {
	hexKey := hex.EncodeToString(key[:])
	// Подкаталог "tax" — чтобы каталог кеша можно было чистить точечно.
	return filepath.Join(c.dir, "tax", hexKey+".mp")
}

// Put serializes and writes an artifact to the disk cache.
func (c *DiskCache) Put(key Digest, art *emit.Artifact) error {
	if c == nil || art == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name()) // no-op после успешного Rename

	enc := msgpack.NewEncoder(f)
	if err := enc.Encode(artifactToPayload(art)); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), p)
}

// Get reads an artifact from the disk cache. The second return is
// false on a miss; an error means the entry exists but is unreadable.
func (c *DiskCache) Get(key Digest) (*emit.Artifact, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	p := c.pathFor(key)
	f, err := os.Open(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer f.Close()

	var payload cachedArtifact
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return nil, false, err
	}
	if payload.Schema != diskCacheSchemaVersion {
		// Старая схема — просто промах, перезапишется после компиляции.
		return nil, false, nil
	}
	art, err := payloadToArtifact(&payload)
	if err != nil {
		return nil, false, err
	}
	return art, true, nil
}

// DropAll invalidates the cache, useful after format changes.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	// тривиально: переименуем каталог и удалим целиком
	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return os.RemoveAll(old)
}

func artifactToPayload(art *emit.Artifact) *cachedArtifact {
	payload := &cachedArtifact{
		Schema:   diskCacheSchemaVersion,
		Name:     art.Name,
		Generics: art.Generics,
	}

	payload.Docs = make([]cachedDocLine, len(art.Docs))
	for i, line := range art.Docs {
		payload.Docs[i] = cachedDocLine{Indent: line.Indent, Text: line.Text}
	}

	payload.Variants = make([]cachedVariant, len(art.Descriptors))
	for i := range art.Descriptors {
		d := &art.Descriptors[i]
		v := cachedVariant{
			Ident:     d.Ident,
			ShapeKind: uint8(d.Shape.Kind),
			Kind:      uint8(d.Kind),
			Number:    d.Number,
			Msg:       d.Message.Source,
			Label:     d.Label.Source,
			Nested:    d.Nested,
			SpanField: d.SpanRule.FromField,
			SpanIndex: d.SpanRule.Index,
			SpanName:  d.SpanRule.Name,
		}
		v.FieldNames = make([]string, len(d.Shape.Fields))
		v.FieldTypes = make([]string, len(d.Shape.Fields))
		for j, fld := range d.Shape.Fields {
			v.FieldNames[j] = fld.Name
			v.FieldTypes[j] = fld.Type.Text
		}
		payload.Variants[i] = v
	}
	return payload
}

func payloadToArtifact(payload *cachedArtifact) (*emit.Artifact, error) {
	art := &emit.Artifact{
		Name:     payload.Name,
		Generics: payload.Generics,
	}

	art.Docs = make([]emit.DocLine, len(payload.Docs))
	for i, line := range payload.Docs {
		art.Docs[i] = emit.DocLine{Indent: line.Indent, Text: line.Text}
	}

	art.Descriptors = make([]emit.VariantDescriptor, len(payload.Variants))
	for i := range payload.Variants {
		v := &payload.Variants[i]

		shape := ast.FieldShape{Kind: ast.ShapeKind(v.ShapeKind)}
		shape.Fields = make([]ast.Field, len(v.FieldNames))
		for j := range v.FieldNames {
			shape.Fields[j] = ast.Field{
				Name: v.FieldNames[j],
				Type: ast.TypeText{Text: v.FieldTypes[j]},
			}
		}

		msg, err := msgfmt.Compile(v.Msg, source.Span{}, shape)
		if err != nil {
			return nil, fmt.Errorf("cached msg template for %s: %w", v.Ident, err)
		}
		label, err := msgfmt.Compile(v.Label, source.Span{}, shape)
		if err != nil {
			return nil, fmt.Errorf("cached label template for %s: %w", v.Ident, err)
		}

		kind := errtax.Kind(v.Kind)
		art.Descriptors[i] = emit.VariantDescriptor{
			Ident:   v.Ident,
			Shape:   shape,
			Kind:    kind,
			Number:  v.Number,
			Code:    kind.Short() + v.Number,
			Message: msg,
			Label:   label,
			Nested:  v.Nested,
			SpanRule: emit.SpanRule{
				FromField: v.SpanField,
				Index:     v.SpanIndex,
				Name:      v.SpanName,
			},
		}
	}
	return art, nil
}
