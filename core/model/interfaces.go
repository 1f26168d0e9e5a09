package model

import (
	"io"

	"gonum.org/v1/gonum/mat"
)

// Fitter は学習可能なモデルのインターフェース
type Fitter interface {
	// Fit はモデルを訓練データで学習させる
	Fit(X, y mat.Matrix) error
}

// Predictor は予測可能なモデルのインターフェース
type Predictor interface {
	// Predict は入力データに対する予測を行う
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// Scorer はスコアを計算できるモデルのインターフェース
type Scorer interface {
	// Score は分類器の場合、予測の正解率を返す
	Score(X, y mat.Matrix) (float64, error)
}

// Estimator は学習状態を持つモデルのインターフェース
type Estimator interface {
	Fitter
	// IsFitted はモデルが学習済みかどうかを返す
	IsFitted() bool
}

// Classifier は二値分類器のインターフェース
type Classifier interface {
	Estimator
	Predictor
	Scorer

	// DecisionFunction は各サンプルの判別関数値を返す
	DecisionFunction(X mat.Matrix) (*mat.VecDense, error)

	// Classes は学習時に確認したクラスラベルを返す
	Classes() []int
}

// ParameterGetter はハイパーパラメータを公開するモデルのインターフェース
type ParameterGetter interface {
	// GetParams はモデルのハイパーパラメータを返す
	GetParams() map[string]interface{}
}

// Persistable は io.Writer / io.Reader を通じて保存・復元できるモデル
type Persistable interface {
	Save(w io.Writer) error
	Load(r io.Reader) error
}
