package corpus

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	memoryretriever "github.com/patrolscribe/assistant/retriever/memory"
)

type fakeEmbedder struct {
	calls int
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if len(strings.TrimSpace(text)) == 0 {
		return []float32{}, nil
	}
	f.calls++
	return []float32{float32(len(text)), 1}, nil
}

func TestIngestTextInsertsOneChunkPerParagraph(t *testing.T) {
	ctx := context.Background()
	emb := &fakeEmbedder{}
	ret := memoryretriever.NewRetriever()

	svc := New(emb, ret)

	inserted, err := svc.IngestText(ctx, "CALCRIM 1800. Theft by larceny.\n\nCALCRIM 1801. Theft: degrees.\n\n   \n")
	require.NoError(t, err)
	require.Equal(t, 2, inserted)
	require.Equal(t, 2, emb.calls)

	results, err := ret.Search(ctx, []float32{30, 1}, 10)
	require.NoError(t, err)
	require.Len(t, results, 2)
}

func TestIngestTextSkipsEmptyInput(t *testing.T) {
	emb := &fakeEmbedder{}
	svc := New(emb, memoryretriever.NewRetriever())

	inserted, err := svc.IngestText(context.Background(), "\n\n\n")
	require.NoError(t, err)
	require.Zero(t, inserted)
	require.Zero(t, emb.calls)
}
