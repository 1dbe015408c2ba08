// Package wire implements the compact encodings used between easel and the
// gridd canvas daemon.
//
// Two forms exist:
//
//   - CompactPayload: the columnar, dictionary-compressed JSON body served by
//     GET /canvas and GET /canvas_delta. Owners are deduplicated once into
//     OwnerTable; every other column carries one value per pixel. DecodePayload
//     expands it into pixel records, dropping out-of-range coordinates and
//     rejecting column-length mismatches with ErrMalformedPayload.
//
//   - PX3: the binary layout for outbound pixel edits. EncodeEdits picks,
//     independently per batch, a palette byte per pixel when the batch has at
//     most 256 distinct colors, and a varint delta stream for sorted linear
//     indices whenever it beats the fixed 3-byte absolute form. A single flags
//     byte records both choices so DecodeEdits is unambiguous.
//
// Varints use the standard little-endian base-128 continuation encoding and
// round-trip every uint32 exactly.
package wire
