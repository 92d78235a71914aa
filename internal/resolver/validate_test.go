package resolver

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		ids      Identifiers
		lenient  bool
		wantErr  error
		warnings int
	}{
		{name: "full chain", ids: Identifiers{Extractor: "text", Annotator: "upper", PostProcessor: "write"}},
		{name: "annotator only", ids: Identifiers{Annotator: "len"}},
		{name: "missing annotator", ids: Identifiers{Extractor: "text"}, wantErr: ErrMissingAnnotator},
		{name: "unknown annotator", ids: Identifiers{Annotator: "nope"}, wantErr: ErrUnknownFunction},
		{name: "unknown annotator lenient", ids: Identifiers{Annotator: "nope"}, lenient: true, wantErr: ErrUnknownFunction},
		{name: "unknown extractor strict", ids: Identifiers{Extractor: "nope", Annotator: "len"}, wantErr: ErrUnknownFunction},
		{name: "unknown extractor lenient", ids: Identifiers{Extractor: "nope", Annotator: "len"}, lenient: true, warnings: 1},
		{name: "role mismatch", ids: Identifiers{Extractor: "upper", Annotator: "len"}, wantErr: ErrWrongRole},
		{name: "extractor kind mismatch", ids: Identifiers{Extractor: "text", Annotator: "len"}, wantErr: ErrKindMismatch},
		{name: "document into text annotator", ids: Identifiers{Annotator: "upper"}, wantErr: ErrKindMismatch},
		{name: "post without extractor", ids: Identifiers{Annotator: "len", PostProcessor: "write"}, warnings: 1},
		{name: "broken extractor still validates", ids: Identifiers{Extractor: "broken", Annotator: "upper"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRegistry(t)
			warnings, err := r.Validate(tt.ids, tt.lenient)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, warnings, tt.warnings)
		})
	}
}

func TestValidate_PostKindMismatch(t *testing.T) {
	r := newTestRegistry(t)
	require.NoError(t, r.RegisterAnnotator(Descriptor{ID: "num", Sig: Signature{In: KindText, Out: KindNumber}},
		func() (Annotator, error) { return r.ResolveAnnotator("upper") }))
	_, err := r.Validate(Identifiers{Extractor: "text", Annotator: "num", PostProcessor: "write"}, false)
	assert.True(t, errors.Is(err, ErrKindMismatch))
}
