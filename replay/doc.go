// Package replay reconstructs element values from the delta-encoded updates in
// tick records.
//
// Every collected element owns one Replayer. The query engine walks a tick
// record, reads each update's uint16 collectable id and hands the rest of the
// record to that element's Replayer, which decodes exactly one update, appends
// one Entry to its history and reports how many bytes it consumed. The record
// carries no other framing, so the replayers alone determine where the next
// update starts.
//
// Replayers keep raw payload bytes; turning them into values is left to the
// encoding package so that only the element being queried pays for decoding.
//
// A Context groups the replayers of one query. Contexts are cheap and must not
// be shared between concurrent queries.
package replay
