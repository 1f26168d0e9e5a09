package model

import (
	"encoding/gob"
	"io"

	"github.com/YuminosukeSato/svmopt/pkg/errors"
)

// SaveModelToWriter はモデルの状態をgobでio.Writerに保存する
//
// パラメータ:
//   - state: 保存する状態（エクスポートされたフィールドを持つ構造体）
//   - w: 保存先のWriter
//
// 戻り値:
//   - error: エンコードに失敗した場合のエラー
//
// 使用例:
//
//	var buf bytes.Buffer
//	err := model.SaveModelToWriter(snapshot, &buf)
func SaveModelToWriter(state interface{}, w io.Writer) error {
	encoder := gob.NewEncoder(w)
	if err := encoder.Encode(state); err != nil {
		return errors.Wrap(err, "failed to encode model")
	}
	return nil
}

// LoadModelFromReader はio.Readerからgobで状態を読み込む
//
// パラメータ:
//   - state: 読み込み先（ポインタ）
//   - r: 読み込み元のReader
//
// 戻り値:
//   - error: デコードに失敗した場合のエラー
func LoadModelFromReader(state interface{}, r io.Reader) error {
	decoder := gob.NewDecoder(r)
	if err := decoder.Decode(state); err != nil {
		return errors.Wrap(err, "failed to decode model")
	}
	return nil
}
