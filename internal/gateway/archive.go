package gateway

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/bifshteksex/crdt-engine/internal/change"
	"github.com/bifshteksex/crdt-engine/internal/thumbnail"
)

// archiveInterval archives a durable snapshot and any asset thumbnails
// each time a sync leaves a document's checkpoint on a multiple of this
// many server seqs (a batch that steps over a multiple does not archive),
// trading archival freshness for not hitting blobstore on every sync.
const archiveInterval = 20

const (
	thumbnailMaxWidth  = 300
	thumbnailMaxHeight = 300
)

// maybeArchive runs store/blobstore snapshot archival and asset
// thumbnail rendering when checkpoint lands on an archive boundary.
// Best-effort: failures are logged, never surfaced to the sync caller,
// matching fanOut's treatment of non-critical side effects (§5 addendum).
func (g *Gateway) maybeArchive(ctx context.Context, key string, checkpoint change.Checkpoint) {
	if g.blobStore == nil || checkpoint.ServerSeq == 0 || checkpoint.ServerSeq%archiveInterval != 0 {
		return
	}

	doc, err := g.Document(ctx, key)
	if err != nil {
		return
	}

	snapshot, err := doc.Snapshot()
	if err != nil {
		log.Printf("gateway: failed to encode snapshot for %q: %v", key, err)
		return
	}

	if err := g.store.SaveSnapshot(ctx, key, checkpoint.ServerSeq, snapshot); err != nil {
		log.Printf("gateway: failed to save snapshot for %q: %v", key, err)
	}

	objectKey := fmt.Sprintf("%s/%d.json", key, checkpoint.ServerSeq)
	if err := g.blobStore.PutSnapshot(ctx, objectKey, snapshot); err != nil {
		log.Printf("gateway: failed to archive snapshot for %q: %v", key, err)
		return
	}

	assets, err := doc.AssetBytes()
	if err != nil || len(assets) == 0 {
		return
	}

	for i, asset := range assets {
		if http.DetectContentType(asset[:min(len(asset), 512)])[:5] != "image" {
			continue
		}
		thumb, err := thumbnail.RenderThumbnail(asset, thumbnailMaxWidth, thumbnailMaxHeight)
		if err != nil {
			log.Printf("gateway: failed to render thumbnail %d for %q: %v", i, key, err)
			continue
		}
		thumbKey := fmt.Sprintf("%s/%d.thumb-%d.png", key, checkpoint.ServerSeq, i)
		if err := g.blobStore.PutSnapshot(ctx, thumbKey, thumb); err != nil {
			log.Printf("gateway: failed to archive thumbnail %d for %q: %v", i, key, err)
		}
	}
}
