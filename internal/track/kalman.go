// Package track smooths a camera's dart tip estimates with a constant
// velocity Kalman filter.
package track

import (
	"fmt"

	"dart-scorer/pkg/geometry"

	"gonum.org/v1/gonum/mat"
)

// Params configures the filter.
type Params struct {
	DT       float64 // time step between observations
	UX, UY   float64 // control acceleration
	StdAcc   float64 // process noise magnitude
	XStdMeas float64 // measurement noise, x
	YStdMeas float64 // measurement noise, y
}

// DefaultParams returns the tuning used for 30fps cameras.
func DefaultParams() Params {
	return Params{DT: 0.1, StdAcc: 1, XStdMeas: 1, YStdMeas: 1}
}

// Filter is a 2D constant-velocity Kalman filter with state [x, y, vx, vy].
type Filter struct {
	A, B, H, Q, R *mat.Dense
	U             *mat.VecDense

	x *mat.VecDense // state estimate
	P *mat.Dense    // estimate covariance
}

// NewFilter builds the filter matrices from p. The state starts at the
// origin with identity covariance.
func NewFilter(p Params) (*Filter, error) {
	if p.DT <= 0 {
		return nil, fmt.Errorf("kalman dt must be positive, got %f", p.DT)
	}
	if p.XStdMeas <= 0 || p.YStdMeas <= 0 {
		return nil, fmt.Errorf("kalman measurement noise must be positive")
	}

	dt := p.DT
	dt2 := dt * dt
	dt3 := dt2 * dt
	dt4 := dt3 * dt
	acc2 := p.StdAcc * p.StdAcc

	f := &Filter{
		A: mat.NewDense(4, 4, []float64{
			1, 0, dt, 0,
			0, 1, 0, dt,
			0, 0, 1, 0,
			0, 0, 0, 1,
		}),
		B: mat.NewDense(4, 2, []float64{
			dt2 / 2, 0,
			0, dt2 / 2,
			dt, 0,
			0, dt,
		}),
		H: mat.NewDense(2, 4, []float64{
			1, 0, 0, 0,
			0, 1, 0, 0,
		}),
		R: mat.NewDense(2, 2, []float64{
			p.XStdMeas * p.XStdMeas, 0,
			0, p.YStdMeas * p.YStdMeas,
		}),
		U: mat.NewVecDense(2, []float64{p.UX, p.UY}),
	}

	q := mat.NewDense(4, 4, []float64{
		dt4 / 4, 0, dt3 / 2, 0,
		0, dt4 / 4, 0, dt3 / 2,
		dt3 / 2, 0, dt2, 0,
		0, dt3 / 2, 0, dt2,
	})
	q.Scale(acc2, q)
	f.Q = q

	f.Reset(geometry.Point2D{})
	return f, nil
}

// Reset places the state at p with zero velocity and identity covariance.
func (f *Filter) Reset(p geometry.Point2D) {
	f.x = mat.NewVecDense(4, []float64{p.X, p.Y, 0, 0})
	f.P = mat.NewDense(4, 4, []float64{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	})
}

// Position returns the current position estimate.
func (f *Filter) Position() geometry.Point2D {
	return geometry.Point2D{X: f.x.AtVec(0), Y: f.x.AtVec(1)}
}

// Predict advances the state one step: x = A x + B u, P = A P Aᵀ + Q.
func (f *Filter) Predict() geometry.Point2D {
	var ax, bu mat.VecDense
	ax.MulVec(f.A, f.x)
	bu.MulVec(f.B, f.U)
	ax.AddVec(&ax, &bu)
	f.x = &ax

	var ap, apat mat.Dense
	ap.Mul(f.A, f.P)
	apat.Mul(&ap, f.A.T())
	apat.Add(&apat, f.Q)
	f.P = &apat

	return f.Position()
}

// Update corrects the state with a position measurement and returns the
// corrected position.
func (f *Filter) Update(z geometry.Point2D) (geometry.Point2D, error) {
	// S = H P Hᵀ + R
	var hp, s mat.Dense
	hp.Mul(f.H, f.P)
	s.Mul(&hp, f.H.T())
	s.Add(&s, f.R)

	var sInv mat.Dense
	if err := sInv.Inverse(&s); err != nil {
		return f.Position(), fmt.Errorf("kalman innovation covariance is singular: %w", err)
	}

	// K = P Hᵀ S⁻¹
	var pht, k mat.Dense
	pht.Mul(f.P, f.H.T())
	k.Mul(&pht, &sInv)

	// x = x + K (z - H x)
	var hx, y, ky mat.VecDense
	hx.MulVec(f.H, f.x)
	y.SubVec(mat.NewVecDense(2, []float64{z.X, z.Y}), &hx)
	ky.MulVec(&k, &y)
	var x mat.VecDense
	x.AddVec(f.x, &ky)
	f.x = &x

	// P = (I - K H) P
	var kh, ikh, p mat.Dense
	kh.Mul(&k, f.H)
	ikh.Sub(identity4(), &kh)
	p.Mul(&ikh, f.P)
	f.P = &p

	return f.Position(), nil
}

func identity4() *mat.Dense {
	return mat.NewDense(4, 4, []float64{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	})
}
