package main

import (
	"bufio"
	"io"

	"github.com/mattn/go-sixel"

	"github.com/srlehn/boxscale/codec"
	"github.com/srlehn/boxscale/internal/errors"
)

// previewFile prints an image file as sixel graphics.
func previewFile(w io.Writer, path string) error {
	img, _, err := codec.DecodeFile(path)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	enc := sixel.NewEncoder(bw)
	enc.Dither = true
	if err := enc.Encode(img); err != nil {
		return errors.New(err)
	}
	if err := bw.Flush(); err != nil {
		return errors.New(err)
	}
	return nil
}
