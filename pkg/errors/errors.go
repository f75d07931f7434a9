// Package errors はプロジェクト全体のエラーハンドリングを提供します。
// 回帰パイプラインの各段階が返す失敗を型で区別し、コントローラ境界でのみ
// クライアント向けメッセージに変換できるよう構造化されたエラー情報を提供します。
package errors

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	パイプラインのエラー分類
//
// ===========================================================================

// InputMissingError は必須の入力（ファイル、特徴量、ターゲット）が欠けている場合のエラーです。
type InputMissingError struct {
	Field   string // 欠けているフィールド（"file", "features", "target"）
	Message string // クライアントにそのまま返すメッセージ
}

func (e *InputMissingError) Error() string {
	return e.Message
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *InputMissingError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("field", e.Field).
		Str("type", "InputMissingError")
}

// NewInputMissingError は新しいInputMissingErrorを作成し、スタックトレースを付与します。
func NewInputMissingError(field, message string) error {
	return errors.WithStack(&InputMissingError{Field: field, Message: message})
}

// InvalidRequestError はリクエストの列指定が矛盾している場合のエラーです。
// 例えば、同じ特徴量が二度指定された場合や、ターゲットが特徴量にも含まれる場合など。
type InvalidRequestError struct {
	Reason string
}

func (e *InvalidRequestError) Error() string {
	return e.Reason
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *InvalidRequestError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("reason", e.Reason).
		Str("type", "InvalidRequestError")
}

// NewInvalidRequestError は新しいInvalidRequestErrorを作成します。
func NewInvalidRequestError(format string, args ...interface{}) error {
	return errors.WithStack(&InvalidRequestError{Reason: fmt.Sprintf(format, args...)})
}

// ParseError はCSVのデコードに失敗した場合のエラーです。
// 下位のパーサのメッセージを隠さずに保持します。
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("Error reading CSV file: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *ParseError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("cause", fmt.Sprint(e.Err)).
		Str("type", "ParseError")
}

// NewParseError は新しいParseErrorを作成し、スタックトレースを付与します。
func NewParseError(err error) error {
	return errors.WithStack(&ParseError{Err: err})
}

// MissingColumnError は要求された列がデータセットに存在しない場合のエラーです。
// 最初の一つだけではなく、欠けている列をすべて保持します。
type MissingColumnError struct {
	Columns []string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("CSV file is missing required columns: %s", strings.Join(e.Columns, ", "))
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *MissingColumnError) MarshalZerologObject(event *zerolog.Event) {
	event.Strs("columns", e.Columns).
		Str("type", "MissingColumnError")
}

// NewMissingColumnError は新しいMissingColumnErrorを作成し、スタックトレースを付与します。
func NewMissingColumnError(columns []string) error {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return errors.WithStack(&MissingColumnError{Columns: cols})
}

// FitError の種類
const (
	FitKindEmptyDataset   = "empty dataset"
	FitKindNonNumeric     = "non-numeric feature/target column"
	FitKindIllConditioned = "ill-conditioned design matrix"
)

// FitError は回帰の学習に失敗した場合のエラーです。
// Kind は FitKind* 定数のいずれかで、Detail は列名や行番号などの補足です。
type FitError struct {
	Kind   string
	Detail string
	Err    error
}

func (e *FitError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("Error fitting model: %s: %s", e.Kind, e.Detail)
	}
	return fmt.Sprintf("Error fitting model: %s", e.Kind)
}

func (e *FitError) Unwrap() error {
	return e.Err
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *FitError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("kind", e.Kind).
		Str("detail", e.Detail).
		Str("type", "FitError")
}

// NewFitError は新しいFitErrorを作成し、スタックトレースを付与します。
func NewFitError(kind, detail string, err error) error {
	return errors.WithStack(&FitError{Kind: kind, Detail: detail, Err: err})
}

// RenderError はチャートの描画またはエンコードに失敗した場合のエラーです。
type RenderError struct {
	Err error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("Error rendering chart: %v", e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// NewRenderError は新しいRenderErrorを作成し、スタックトレースを付与します。
func NewRenderError(err error) error {
	return errors.WithStack(&RenderError{Err: err})
}

// ===========================================================================
//
//	推定器の構造化されたエラー型
//
// ===========================================================================

// NotFittedError はモデルが未学習の状態で `Predict` を呼び出した場合のエラーです。
type NotFittedError struct {
	ModelName string
	Method    string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("regplot: %s: this model is not fitted yet. Call Fit() before using %s()", e.ModelName, e.Method)
}

// NewNotFittedError は新しいNotFittedErrorを作成し、スタックトレースを付与します。
func NewNotFittedError(modelName, method string) error {
	return errors.WithStack(&NotFittedError{ModelName: modelName, Method: method})
}

// DimensionError は入力データの次元が期待値と異なる場合のエラーです。
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0 for rows, 1 for columns/features
}

func (e *DimensionError) Error() string {
	axisName := "features"
	if e.Axis == 0 {
		axisName = "rows"
	}
	return fmt.Sprintf("regplot: %s: dimension mismatch on axis %d (%s). Expected %d, got %d", e.Op, e.Axis, axisName, e.Expected, e.Got)
}

// NewDimensionError は新しいDimensionErrorを作成し、スタックトレースを付与します。
func NewDimensionError(op string, expected, got, axis int) error {
	return errors.WithStack(&DimensionError{Op: op, Expected: expected, Got: got, Axis: axis})
}

// ValueError は引数の値が不適切または不正な場合に発生するエラーです。
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("regplot: %s: %s", e.Op, e.Message)
}

// NewValueError は新しいValueErrorを作成し、スタックトレースを付与します。
func NewValueError(op, message string) error {
	return errors.WithStack(&ValueError{Op: op, Message: message})
}

// ModelError は機械学習モデルに関する一般的なエラーです。
type ModelError struct {
	Op   string
	Kind string
	Err  error
}

func (e *ModelError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("regplot: %s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("regplot: %s: %s", e.Op, e.Kind)
}

func (e *ModelError) Unwrap() error {
	return e.Err
}

// NewModelError は新しいModelErrorを作成し、スタックトレースを付与します。
func NewModelError(op, kind string, err error) error {
	return errors.WithStack(&ModelError{Op: op, Kind: kind, Err: err})
}

// ===========================================================================
//
//	cockroachdb/errors ラッパー関数
//
// ===========================================================================

// Is はエラーが特定のターゲットエラーかどうかを判定します。
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As はエラーが特定の型にキャスト可能かどうかを判定します。
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap は既存のエラーをメッセージ付きでラップします。
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf は既存のエラーをフォーマット文字列でラップします。
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New は新しいエラーを作成します。
func New(message string) error {
	return errors.New(message)
}

// Newf は新しいフォーマット済みエラーを作成します。
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack はエラーにスタックトレースを付与します。
func WithStack(err error) error {
	return errors.WithStack(err)
}

// ===========================================================================
//
//	共通エラー変数
//
// ===========================================================================

var (
	// ErrEmptyData は空のデータが渡された場合のエラーです。
	ErrEmptyData = New("empty data")

	// ErrSingularMatrix は特異行列の場合のエラーです。
	ErrSingularMatrix = New("singular matrix")
)
