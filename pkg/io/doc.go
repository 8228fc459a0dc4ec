// Package io groups the input side of bibigrid.
//
// Subpackages:
//   - configuration: reading, merging and decoding configuration documents
//   - settings: process settings taken from the environment
package io
