package identity

import (
	"sort"
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Callers must ensure key construction prevents cross-entity collisions (prefix by domain/type).
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// SourceUUID identifies a source text. The text is hashed verbatim so any
// change, whitespace included, yields a new id.
func SourceUUID(source string) uuid.UUID {
	if source == "" {
		return uuid.Nil
	}
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("go-asciidoc:source:"+source))
}

// DocumentUUID keys a parse result: the source id combined with the options
// that influence the tree (doctype, API attributes and so on).
func DocumentUUID(sourceID uuid.UUID, options map[string]string) uuid.UUID {
	if sourceID == uuid.Nil {
		return uuid.Nil
	}
	keys := make([]string, 0, len(options))
	for k := range options {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("go-asciidoc:document:")
	b.WriteString(sourceID.String())
	for _, k := range keys {
		b.WriteByte(':')
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(options[k])
	}
	return UUID(b.String())
}
