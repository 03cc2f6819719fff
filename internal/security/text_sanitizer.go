// Package security 는 애플리케이션의 보안 기능을 제공한다.
//
// TextSanitizerService 는 숙소 이름, 주소, 투숙객 이름 등
// 사용자가 입력한 자유 텍스트에서 HTML을 제거해
// 저장된 값이 그대로 화면에 출력되어도 안전하도록 보장한다.
package security

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// TextSanitizerService 는 자유 텍스트 정화 기능의 인터페이스를 정의한다.
// 숙소/예약/구독자 입력값 저장 전에 사용된다.
type TextSanitizerService interface {
	// Sanitize 는 입력에서 모든 HTML 태그를 제거하고 앞뒤 공백을 정리한 텍스트를 반환한다.
	// 빈 문자열 입력에는 빈 문자열을 반환한다.
	// 같은 입력에 대해 항상 같은 출력을 반환한다(멱등).
	Sanitize(raw string) string

	// SanitizePtr 는 nil 포인터를 그대로 통과시키는 Sanitize의 포인터 버전.
	SanitizePtr(raw *string) *string
}

// textSanitizer 는 TextSanitizerService의 구현.
// bluemonday의 StrictPolicy를 보관하며 스레드 안전하게 동작한다.
type textSanitizer struct {
	policy *bluemonday.Policy
}

// NewTextSanitizer 는 TextSanitizerService의 새 인스턴스를 생성한다.
// StrictPolicy는 모든 태그와 속성을 제거하고 텍스트만 남긴다.
func NewTextSanitizer() *textSanitizer {
	return &textSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// Sanitize 는 HTML 태그를 모두 제거한 텍스트를 반환한다.
func (s *textSanitizer) Sanitize(raw string) string {
	return strings.TrimSpace(s.policy.Sanitize(raw))
}

// SanitizePtr 는 nil이면 nil을, 아니면 정화된 값의 포인터를 반환한다.
func (s *textSanitizer) SanitizePtr(raw *string) *string {
	if raw == nil {
		return nil
	}
	cleaned := s.Sanitize(*raw)
	return &cleaned
}
