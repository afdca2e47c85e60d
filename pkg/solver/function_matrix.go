// Package solver evaluates a column of scalar functions over a fixed number of
// variables, together with their Jacobian. Exact partial derivatives can be
// registered per entry; every other entry is estimated by forward differences.
package solver

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/df07/go-stochastic-raytracer/pkg/core"
)

// DefaultStep is the forward-difference step used by Jacobian
const DefaultStep = 1e-4

// Func is a scalar function of the solver's variables. x always has NumVars entries.
type Func func(x []float64) float64

// WithArity wraps f so that it panics unless called with exactly n variables.
// Registration probes turn that panic into an ErrArity error.
func WithArity(n int, f Func) Func {
	return func(x []float64) float64 {
		if len(x) != n {
			panic(fmt.Sprintf("function takes %d variables, called with %d", n, len(x)))
		}
		return f(x)
	}
}

type entry struct {
	f      Func
	derivs map[int]Func
}

// FunctionMatrix holds the registered functions and derivatives
type FunctionMatrix struct {
	numVars int
	funcs   []*entry
}

// NewFunctionMatrix creates a matrix over numVars variables and registers funcs in order
func NewFunctionMatrix(numVars int, funcs ...Func) (*FunctionMatrix, error) {
	if numVars <= 0 {
		return nil, fmt.Errorf("function matrix needs at least one variable, got %d: %w", numVars, core.ErrConstruction)
	}
	fm := &FunctionMatrix{numVars: numVars}
	for _, f := range funcs {
		if _, err := fm.AppendFunc(f); err != nil {
			return nil, err
		}
	}
	return fm, nil
}

// NumVars returns the number of variables every function takes
func (fm *FunctionMatrix) NumVars() int {
	return fm.numVars
}

// NumFuncs returns the number of registered functions
func (fm *FunctionMatrix) NumFuncs() int {
	return len(fm.funcs)
}

// AppendFunc registers f as the next function and returns the new function count
func (fm *FunctionMatrix) AppendFunc(f Func) (int, error) {
	if err := fm.probe(f); err != nil {
		return len(fm.funcs), fmt.Errorf("function #%d: %w", len(fm.funcs), err)
	}
	fm.funcs = append(fm.funcs, &entry{f: f})
	return len(fm.funcs), nil
}

// PutFunc replaces function i, dropping its derivatives. i == NumFuncs appends.
// Returns true when an existing function was replaced.
func (fm *FunctionMatrix) PutFunc(i int, f Func) (bool, error) {
	if i < 0 || i > len(fm.funcs) {
		return false, fmt.Errorf("function index %d outside [0, %d]: %w", i, len(fm.funcs), core.ErrDimension)
	}
	if i == len(fm.funcs) {
		_, err := fm.AppendFunc(f)
		return false, err
	}
	if err := fm.probe(f); err != nil {
		return false, fmt.Errorf("function #%d: %w", i, err)
	}
	fm.funcs[i] = &entry{f: f}
	return true, nil
}

// PutDerivative registers the exact partial derivative of function fi with respect
// to variable vi. Returns true when an existing derivative was replaced.
func (fm *FunctionMatrix) PutDerivative(fi, vi int, d Func) (bool, error) {
	if err := fm.checkIndices(fi, vi); err != nil {
		return false, err
	}
	if err := fm.probe(d); err != nil {
		return false, fmt.Errorf("derivative of function #%d wrt variable #%d: %w", fi, vi, err)
	}

	e := fm.funcs[fi]
	if e.derivs == nil {
		e.derivs = make(map[int]Func)
	}
	_, replaced := e.derivs[vi]
	e.derivs[vi] = d
	return replaced, nil
}

// RemoveFunc deletes function i and its derivatives; later functions shift down
func (fm *FunctionMatrix) RemoveFunc(i int) error {
	if i < 0 || i >= len(fm.funcs) {
		return fmt.Errorf("function index %d outside [0, %d): %w", i, len(fm.funcs), core.ErrDimension)
	}
	fm.funcs = append(fm.funcs[:i], fm.funcs[i+1:]...)
	return nil
}

// RemoveDerivative deletes the derivative of function fi wrt variable vi,
// or every derivative of fi when vi is negative. Returns true if anything was removed.
func (fm *FunctionMatrix) RemoveDerivative(fi, vi int) (bool, error) {
	if fi < 0 || fi >= len(fm.funcs) {
		return false, fmt.Errorf("function index %d outside [0, %d): %w", fi, len(fm.funcs), core.ErrDimension)
	}
	e := fm.funcs[fi]
	if vi < 0 {
		removed := len(e.derivs) > 0
		e.derivs = nil
		return removed, nil
	}
	if vi >= fm.numVars {
		return false, fmt.Errorf("variable index %d outside [0, %d): %w", vi, fm.numVars, core.ErrDimension)
	}
	_, ok := e.derivs[vi]
	delete(e.derivs, vi)
	return ok, nil
}

// Evaluate returns the column of function values at point
func (fm *FunctionMatrix) Evaluate(point []float64) (*mat.VecDense, error) {
	if err := fm.checkPoint(point); err != nil {
		return nil, err
	}
	return mat.NewVecDense(len(fm.funcs), fm.evaluate(point)), nil
}

// Jacobian returns the NumFuncs x NumVars Jacobian at point. Entries with a
// registered exact derivative use it; the rest are forward differences with step h.
func (fm *FunctionMatrix) Jacobian(point []float64, h float64) (*mat.Dense, error) {
	j, err := fm.JacobianApprox(point, h)
	if err != nil {
		return nil, err
	}
	for fi, e := range fm.funcs {
		for vi, d := range e.derivs {
			j.Set(fi, vi, d(point))
		}
	}
	return j, nil
}

// JacobianApprox is Jacobian without the exact-derivative overrides
func (fm *FunctionMatrix) JacobianApprox(point []float64, h float64) (*mat.Dense, error) {
	if err := fm.checkPoint(point); err != nil {
		return nil, err
	}
	if h == 0 {
		h = DefaultStep
	}

	base := fm.evaluate(point)
	j := mat.NewDense(len(fm.funcs), fm.numVars, nil)
	shifted := make([]float64, fm.numVars)
	for vi := 0; vi < fm.numVars; vi++ {
		copy(shifted, point)
		shifted[vi] += h
		values := fm.evaluate(shifted)
		for fi := range values {
			j.Set(fi, vi, (values[fi]-base[fi])/h)
		}
	}
	return j, nil
}

// InverseJacobian returns the exact inverse of the Jacobian when it is square,
// otherwise its Moore-Penrose pseudo-inverse
func (fm *FunctionMatrix) InverseJacobian(point []float64, h float64) (*mat.Dense, error) {
	j, err := fm.Jacobian(point, h)
	if err != nil {
		return nil, err
	}

	if len(fm.funcs) == fm.numVars {
		var inv mat.Dense
		if err := inv.Inverse(j); err != nil {
			return nil, fmt.Errorf("inverting jacobian: %w", err)
		}
		return &inv, nil
	}
	return PseudoInverse(j)
}

// PseudoInverse computes the Moore-Penrose pseudo-inverse of a through its thin SVD
func PseudoInverse(a mat.Matrix) (*mat.Dense, error) {
	var svd mat.SVD
	if ok := svd.Factorize(a, mat.SVDThin); !ok {
		return nil, fmt.Errorf("svd factorization failed")
	}

	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	values := svd.Values(nil)

	rows, cols := a.Dims()
	tol := float64(max(rows, cols)) * 2.220446049250313e-16
	if len(values) > 0 {
		tol *= values[0]
	}
	inv := make([]float64, len(values))
	for i, s := range values {
		if s > tol {
			inv[i] = 1 / s
		}
	}

	var vs mat.Dense
	vs.Mul(&v, mat.NewDiagDense(len(inv), inv))
	var pinv mat.Dense
	pinv.Mul(&vs, u.T())
	return &pinv, nil
}

func (fm *FunctionMatrix) evaluate(point []float64) []float64 {
	values := make([]float64, len(fm.funcs))
	for i, e := range fm.funcs {
		values[i] = e.f(point)
	}
	return values
}

func (fm *FunctionMatrix) checkPoint(point []float64) error {
	if len(point) != fm.numVars {
		return fmt.Errorf("expected %d point components, found %d: %w", fm.numVars, len(point), core.ErrDimension)
	}
	if len(fm.funcs) == 0 {
		return fmt.Errorf("no functions registered: %w", core.ErrDimension)
	}
	return nil
}

func (fm *FunctionMatrix) checkIndices(fi, vi int) error {
	if fi < 0 || fi >= len(fm.funcs) {
		return fmt.Errorf("function index %d outside [0, %d): %w", fi, len(fm.funcs), core.ErrDimension)
	}
	if vi < 0 || vi >= fm.numVars {
		return fmt.Errorf("variable index %d outside [0, %d): %w", vi, fm.numVars, core.ErrDimension)
	}
	return nil
}

// probe calls f at the zero vector. NaN or Inf results are fine; a panic means
// f cannot take NumVars variables.
func (fm *FunctionMatrix) probe(f Func) (err error) {
	if f == nil {
		return fmt.Errorf("nil function: %w", core.ErrArity)
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("must take exactly %d variables (%v): %w", fm.numVars, r, core.ErrArity)
		}
	}()
	f(make([]float64, fm.numVars))
	return nil
}
