package metrics

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/svmopt/pkg/errors"
)

// Accuracy は正解率（予測ラベルが真のラベルと一致する割合）を計算する
func Accuracy(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkPair("Accuracy", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	var correct int
	for i := 0; i < n; i++ {
		if yTrue.AtVec(i) == yPred.AtVec(i) {
			correct++
		}
	}
	return float64(correct) / float64(n), nil
}

// AccuracyMatrix は n×1 行列形式の入力に対して正解率を計算する
func AccuracyMatrix(yTrue, yPred mat.Matrix) (float64, error) {
	yTrueVec, yPredVec, err := columnPair("AccuracyMatrix", yTrue, yPred, true)
	if err != nil {
		return 0, err
	}
	return Accuracy(yTrueVec, yPredVec)
}

// ClassificationError は誤分類率（1 - 正解率）を計算する
func ClassificationError(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkPair("ClassificationError", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	var wrong int
	for i := 0; i < n; i++ {
		if yTrue.AtVec(i) != yPred.AtVec(i) {
			wrong++
		}
	}
	return float64(wrong) / float64(n), nil
}

// AUC はROC曲線下面積を計算する。
// yTrue は {0, 1} のラベル、yScore は判別関数値などのスコア。
// 片方のクラスしか存在しない場合は 0.5 を返す。同順位は平均順位で扱う。
func AUC(yTrue, yScore *mat.VecDense) (float64, error) {
	n, err := checkPair("AUC", yTrue, yScore)
	if err != nil {
		return 0, err
	}

	var nPos, nNeg int
	for i := 0; i < n; i++ {
		switch yTrue.AtVec(i) {
		case 1:
			nPos++
		case 0:
			nNeg++
		default:
			return 0, errors.NewValueError("AUC", "yTrue must contain only 0 and 1")
		}
	}
	if nPos == 0 || nNeg == 0 {
		return 0.5, nil
	}

	scores := make([]float64, n)
	for i := range scores {
		scores[i] = yScore.AtVec(i)
	}
	inds := make([]int, n)
	floats.Argsort(scores, inds)

	// Mann-Whitney U: 正例の順位和から AUC を求める
	var rankSumPos float64
	for i := 0; i < n; {
		j := i
		for j+1 < n && scores[j+1] == scores[i] {
			j++
		}
		avgRank := float64(i+j)/2 + 1
		for k := i; k <= j; k++ {
			if yTrue.AtVec(inds[k]) == 1 {
				rankSumPos += avgRank
			}
		}
		i = j + 1
	}

	u := rankSumPos - float64(nPos)*float64(nPos+1)/2
	return u / (float64(nPos) * float64(nNeg)), nil
}

// AUCMatrix は行列形式の入力に対してAUCを計算する（先頭列を使用）
func AUCMatrix(yTrue, yScore mat.Matrix) (float64, error) {
	yTrueVec, yScoreVec, err := columnPair("AUCMatrix", yTrue, yScore, false)
	if err != nil {
		return 0, err
	}
	return AUC(yTrueVec, yScoreVec)
}
