// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package state

import (
	"bufio"
	"encoding/binary"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/Jezz0r/Stratiflow/grid"
)

// SaveToFile writes s to path in the binary layout spec.md section 6
// defines: the four modal fields (u1, u2, u3, b), each dumped in Field's own
// storage order (n1 slowest, n3 fastest) as interleaved little-endian
// float64 real/imaginary pairs, one field after another with no header --
// the grid resolution is carried by the caller's config, not the file,
// exactly as original_source/StateVector.cpp's Save does.
func (s *StateVector) SaveToFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	for _, data := range [][]complex128{s.U1.Raw(), s.U2.Raw(), s.U3.Raw(), s.B.Raw()} {
		if err := writeComplexSlice(w, data); err != nil {
			return err
		}
	}
	return w.Flush()
}

// LoadFromFile overwrites s with the contents of path, which must have been
// written by SaveToFile at the same grid resolution s was allocated with.
func (s *StateVector) LoadFromFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	r := bufio.NewReader(f)
	for _, data := range [][]complex128{s.U1.Raw(), s.U2.Raw(), s.U3.Raw(), s.B.Raw()} {
		if err := readComplexSlice(r, data); err != nil {
			return err
		}
	}
	return nil
}

func writeComplexSlice(w io.Writer, data []complex128) error {
	buf := make([]byte, 16)
	for _, v := range data {
		binary.LittleEndian.PutUint64(buf[0:8], math.Float64bits(real(v)))
		binary.LittleEndian.PutUint64(buf[8:16], math.Float64bits(imag(v)))
		if _, err := w.Write(buf); err != nil {
			return err
		}
	}
	return nil
}

func readComplexSlice(r io.Reader, dst []complex128) error {
	buf := make([]byte, 16)
	for i := range dst {
		if _, err := io.ReadFull(r, buf); err != nil {
			return err
		}
		re := math.Float64frombits(binary.LittleEndian.Uint64(buf[0:8]))
		im := math.Float64frombits(binary.LittleEndian.Uint64(buf[8:16]))
		dst[i] = complex(re, im)
	}
	return nil
}

// modalLike is the structural shape LoadAndInterpolate's resolution-change
// copy needs from a *field.Modal -- spelled out as an interface so it can be
// unit tested without allocating full fields.
type modalLike interface {
	N1() int
	Dims() grid.Params
	Stack(n1, n2 int) []complex128
}

// LoadAndInterpolate loads the state stored at path (written at resolution
// from) into a fresh StateVector at resolution to, copying the overlapping
// low modes and leaving any newly-added high modes at zero -- the spectral
// equivalent of original_source/StateVector.cpp's LoadAndInterpolate, which
// lets a continuation run change resolution between restarts.
func LoadAndInterpolate(path string, from, to grid.Params) (*StateVector, error) {
	src := NewStateVector(from)
	if err := src.LoadFromFile(path); err != nil {
		return nil, err
	}
	dst := NewStateVector(to)
	interpolateModal(src.U1, dst.U1)
	interpolateModal(src.U2, dst.U2)
	interpolateModal(src.U3, dst.U3)
	interpolateModal(src.B, dst.B)
	dst.U1.Filter()
	dst.U2.Filter()
	dst.U3.Filter()
	dst.B.Filter()
	return dst, nil
}

func interpolateModal(src, dst modalLike) {
	srcDims, dstDims := src.Dims(), dst.Dims()
	n1 := minInt(src.N1(), dst.N1())
	n2 := minInt(srcDims.N2, dstDims.N2)
	n3 := minInt(srcDims.N3, dstDims.N3)
	for a := 0; a < n1; a++ {
		for b := 0; b < n2; b++ {
			ss := src.Stack(a, b)
			ds := dst.Stack(a, b)
			copy(ds[:n3], ss[:n3])
		}
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// writeParamsFile writes p to path as text with at least 30 significant
// digits, per spec.md section 6's sidecar convention for the scalar
// parameters of an extended/critical-point snapshot.
func writeParamsFile(path string, p float64) error {
	return os.WriteFile(path, []byte(strconv.FormatFloat(p, 'g', 30, 64)+"\n"), 0644)
}

func readParamsFile(path string) (float64, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return strconv.ParseFloat(strings.TrimSpace(string(b)), 64)
}

// SaveToFile writes e as a pair of files, per spec.md section 6's suffix
// convention: path+".fields" for the flow state, path+".params" for the
// continuation parameter.
func (e *ExtendedStateVector) SaveToFile(path string) error {
	if err := e.StateVector.SaveToFile(path + ".fields"); err != nil {
		return err
	}
	return writeParamsFile(path+".params", e.P)
}

// LoadExtendedStateVector loads an ExtendedStateVector previously written by
// SaveToFile, allocated at resolution g.
func LoadExtendedStateVector(g grid.Params, path string) (*ExtendedStateVector, error) {
	e := NewExtendedStateVector(g, 0)
	if err := e.StateVector.LoadFromFile(path + ".fields"); err != nil {
		return nil, err
	}
	p, err := readParamsFile(path + ".params")
	if err != nil {
		return nil, err
	}
	e.P = p
	return e, nil
}

// SaveToFile writes c as a triple of files: path+".fields" for the flow
// state, path+".params" for the continuation parameter, and
// path+"-eig.fields" for the eigenvector, per spec.md section 6.
func (c *CriticalPoint) SaveToFile(path string) error {
	if err := c.ExtendedStateVector.SaveToFile(path); err != nil {
		return err
	}
	return c.V.SaveToFile(path + "-eig.fields")
}

// LoadCriticalPoint loads a CriticalPoint previously written by SaveToFile,
// allocated at resolution g.
func LoadCriticalPoint(g grid.Params, path string) (*CriticalPoint, error) {
	ext, err := LoadExtendedStateVector(g, path)
	if err != nil {
		return nil, err
	}
	c := NewCriticalPoint(g, ext.P)
	c.StateVector.CopyFrom(ext.StateVector)
	if err := c.V.LoadFromFile(path + "-eig.fields"); err != nil {
		return nil, err
	}
	return c, nil
}
