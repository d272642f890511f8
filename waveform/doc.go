// Package waveform models the preprocessed multi-channel input consumed
// by the stacking engine.
//
// A [Station] couples an identifier and geographic position with a
// uniformly sampled amplitude trace. A [Set] groups the stations of one
// run and enforces the uniform-sampling invariant — identical sample
// rate, start time, and length across stations — before the core is
// allowed to run.
//
// The JSON interchange format read by [Load] is the boundary contract
// with the acquisition and conditioning collaborators; per-site channel
// naming exceptions live in a [ChannelTable] as configuration data, never
// inside the engine.
package waveform
