package gridd

import "github.com/easelapp/easel/internal/wire"

// Head mirrors the payload returned by /head. The nonce is the canvas
// revision counter; it is the cheap poll target for "did anything change".
type Head struct {
	Revision uint64 `json:"nonce"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}

// DeltaResponse mirrors /canvas_delta. When the daemon can no longer serve
// the requested revision it sets Full and sends a complete snapshot instead.
type DeltaResponse struct {
	Full    bool                `json:"full"`
	Payload wire.CompactPayload `json:"payload"`
}
