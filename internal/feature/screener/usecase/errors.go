package usecase

import "errors"

var (
	// ErrUnknownSource は定義されていない抽出ソースキーが指定されたときに返されます。
	ErrUnknownSource = errors.New("unknown data source")

	// ErrNoData は銘柄の高値・安値データが上流に存在しないときに返されます。
	ErrNoData = errors.New("no high/low data for symbol")
)
