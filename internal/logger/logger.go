package logger

import (
	"io"
	"log/slog"
	"os"
)

// Setup 은 JSON 구조화 로그를 출력하는 slog.Logger를 생성해 반환한다.
// writer가 지정되면 해당 writer로 출력한다.
func Setup(w io.Writer) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	return slog.New(handler)
}

// SetupDefault 는 JSON 구조화 로그 출력을 전역 로거로 설정한다.
// writer가 nil이면 os.Stdout으로 출력한다. 운영 환경에서는 os.Stdout을 전달한다.
func SetupDefault(w io.Writer) {
	if w == nil {
		w = os.Stdout
	}
	logger := Setup(w)
	slog.SetDefault(logger)
}
