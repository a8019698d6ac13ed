// Package lib holds code that does not belong to a single layer: the Douyin
// web client and small shared helpers.
package lib
