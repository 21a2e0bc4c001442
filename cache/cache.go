// Copyright (c) 2026 kiln3d
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package cache persists driver pipeline caches between runs in an lz4
// backed file format. The driver blob is opaque and can get large, so
// it is compressed as a whole; the header stays uncompressed and tells
// us whose blob it is before we bother inflating it. Feeding a blob
// saved on one device back to another is at best useless, the header
// check exists to catch that early.
package cache

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"errors"
	"io"
	"os"

	"github.com/pierrec/lz4"
)

// package errors
var (
	ErrFileFormat     = errors.New("corrupted or not a pipeline cache file")
	ErrDeviceMismatch = errors.New("pipeline cache belongs to a different device")
)

// Sizes relevant to the header of file
const (
	MagicLength            = 4
	HeaderSizeNumberLength = 16
)

var magic = []byte{'K', 'P', 'C', '\x00'}

// Header identifies the device a pipeline cache blob was saved on.
type Header struct {
	DeviceName    string
	VendorID      int
	DeviceID      int
	DriverVersion int
	DateSaved     int64
	BlobSize      int64
}

// Matches reports whether the header was written by the same
// device and driver revision.
func (h *Header) Matches(other Header) bool {
	return h.VendorID == other.VendorID &&
		h.DeviceID == other.DeviceID &&
		h.DriverVersion == other.DriverVersion
}

// Write lays out a pipeline cache file on w: magic, header size,
// gob encoded header, then the lz4 compressed blob.
func Write(w io.Writer, header Header, blob []byte) error {
	header.BlobSize = int64(len(blob))

	rawHeader, err := gobEncode(&header)
	if err != nil {
		return err
	}

	if _, err := w.Write(magic); err != nil {
		return err
	}
	if _, err := w.Write(int64ToBinary(int64(len(rawHeader)))); err != nil {
		return err
	}
	if _, err := w.Write(rawHeader); err != nil {
		return err
	}

	zw := lz4.NewWriter(w)
	if _, err := io.Copy(zw, bytes.NewReader(blob)); err != nil {
		return err
	}
	return zw.Close()
}

// Read parses a pipeline cache file and inflates the blob.
func Read(r io.Reader) (Header, []byte, error) {
	var header Header

	magicBytes := make([]byte, MagicLength)
	if _, err := io.ReadFull(r, magicBytes); err != nil {
		return header, nil, ErrFileFormat
	}
	if !bytes.Equal(magicBytes, magic) {
		return header, nil, ErrFileFormat
	}

	headerSizeBytes := make([]byte, HeaderSizeNumberLength)
	if _, err := io.ReadFull(r, headerSizeBytes); err != nil {
		return header, nil, ErrFileFormat
	}
	headerSize, err := binaryToint64(headerSizeBytes)
	if err != nil || headerSize <= 0 {
		return header, nil, ErrFileFormat
	}

	rawHeader := make([]byte, headerSize)
	if _, err := io.ReadFull(r, rawHeader); err != nil {
		return header, nil, ErrFileFormat
	}
	if err := gobDecode(&header, rawHeader); err != nil {
		return header, nil, ErrFileFormat
	}

	var blob bytes.Buffer
	if _, err := io.Copy(&blob, lz4.NewReader(r)); err != nil {
		return header, nil, ErrFileFormat
	}
	if int64(blob.Len()) != header.BlobSize {
		return header, nil, ErrFileFormat
	}
	return header, blob.Bytes(), nil
}

// Save writes the pipeline cache to a file, replacing what was there.
func Save(path string, header Header, blob []byte) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, header, blob); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Load reads a pipeline cache file and hands back the blob when the
// header matches the device described by want.
func Load(path string, want Header) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	header, blob, err := Read(f)
	if err != nil {
		return nil, err
	}
	if !header.Matches(want) {
		return nil, ErrDeviceMismatch
	}
	return blob, nil
}

func int64ToBinary(num int64) []byte {
	numBytes := make([]byte, HeaderSizeNumberLength)
	binary.PutVarint(numBytes, num)
	return numBytes
}

func binaryToint64(bts []byte) (int64, error) {
	num, err := binary.ReadVarint(bytes.NewReader(bts))
	if err != nil {
		return 0, err
	}
	return num, nil
}

func gobEncode(data interface{}) ([]byte, error) {
	var encoded bytes.Buffer
	if err := gob.NewEncoder(&encoded).Encode(data); err != nil {
		return nil, err
	}
	return encoded.Bytes(), nil
}

func gobDecode(obj interface{}, bts []byte) error {
	return gob.NewDecoder(bytes.NewBuffer(bts)).Decode(obj)
}
