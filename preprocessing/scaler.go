// Package preprocessing はSVMやMLPに渡す前の特徴量変換を提供します。
//
// ガウスカーネルの半径や最適化の学習率は特徴量のスケールに敏感なため、
// 学習前に列ごとの標準化を行うことを推奨します。
package preprocessing

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/svmopt/core/model"
	"github.com/YuminosukeSato/svmopt/pkg/errors"
)

// minScale 未満の標準偏差は定数列とみなし、スケールを1にする
const minScale = 1e-8

// StandardScaler は各列を平均0、標準偏差1に変換する
type StandardScaler struct {
	state *model.StateManager

	// Mean は各特徴量の平均値
	Mean []float64

	// Scale は各特徴量の母標準偏差
	Scale []float64

	withMean bool
	withStd  bool
}

var _ model.Fitter = (*StandardScaler)(nil)

// NewStandardScaler は新しいStandardScalerを作成する
//
// 使用例:
//
//	scaler := preprocessing.NewStandardScaler(true, true)
//	XScaled, err := scaler.FitTransform(X)
//	svc.Fit(XScaled, y)
func NewStandardScaler(withMean, withStd bool) *StandardScaler {
	return &StandardScaler{
		state:    model.NewStateManager(),
		withMean: withMean,
		withStd:  withStd,
	}
}

// NewStandardScalerDefault は平均と標準偏差の両方を使うStandardScalerを作成する
func NewStandardScalerDefault() *StandardScaler {
	return NewStandardScaler(true, true)
}

// Fit は列ごとの平均と標準偏差を計算する。yは使用しない。
func (s *StandardScaler) Fit(X, _ mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("StandardScaler.Fit", "empty data", errors.ErrEmptyData)
	}

	s.Mean = make([]float64, c)
	s.Scale = make([]float64, c)
	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, X)
		if err := errors.CheckNumericalStability("StandardScaler.Fit", col, 0); err != nil {
			return err
		}
		mean, variance := stat.PopMeanVariance(col, nil)
		if s.withMean {
			s.Mean[j] = mean
		}
		s.Scale[j] = 1
		if sd := math.Sqrt(variance); s.withStd && sd >= minScale {
			s.Scale[j] = sd
		}
	}

	s.state.SetDimensions(c, r)
	s.state.SetFitted()
	return nil
}

// Transform は学習済みの統計量でXを標準化した新しい行列を返す
func (s *StandardScaler) Transform(X mat.Matrix) (*mat.Dense, error) {
	if err := s.check("Transform", X); err != nil {
		return nil, err
	}
	out := mat.DenseCopyOf(X)
	out.Apply(func(_, j int, v float64) float64 {
		return (v - s.Mean[j]) / s.Scale[j]
	}, out)
	return out, nil
}

// FitTransform はXで学習し、同じXを変換する
func (s *StandardScaler) FitTransform(X mat.Matrix) (*mat.Dense, error) {
	if err := s.Fit(X, nil); err != nil {
		return nil, err
	}
	return s.Transform(X)
}

// InverseTransform は標準化されたデータを元のスケールに戻す
func (s *StandardScaler) InverseTransform(X mat.Matrix) (*mat.Dense, error) {
	if err := s.check("InverseTransform", X); err != nil {
		return nil, err
	}
	out := mat.DenseCopyOf(X)
	out.Apply(func(_, j int, v float64) float64 {
		return v*s.Scale[j] + s.Mean[j]
	}, out)
	return out, nil
}

func (s *StandardScaler) check(method string, X mat.Matrix) error {
	if err := s.state.RequireFitted("StandardScaler", method); err != nil {
		return err
	}
	_, c := X.Dims()
	return s.state.RequireFeatures("StandardScaler."+method, c)
}

// IsFitted はFitが完了しているかを返す
func (s *StandardScaler) IsFitted() bool {
	return s.state.IsFitted()
}

// GetParams はスケーラーのパラメータを取得する
func (s *StandardScaler) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"with_mean": s.withMean,
		"with_std":  s.withStd,
	}
}

// String はスケーラーの文字列表現を返す
func (s *StandardScaler) String() string {
	if !s.IsFitted() {
		return fmt.Sprintf("StandardScaler(with_mean=%t, with_std=%t)", s.withMean, s.withStd)
	}
	nFeatures, _ := s.state.GetDimensions()
	return fmt.Sprintf("StandardScaler(with_mean=%t, with_std=%t, n_features=%d)",
		s.withMean, s.withStd, nFeatures)
}
