package security

import "testing"

func TestTextSanitizer_StripsHTMLTags(t *testing.T) {
	s := NewTextSanitizer()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"플레인 텍스트", "연남 스테이", "연남 스테이"},
		{"스크립트 태그 제거", "<script>alert('x')</script>연남 스테이", "연남 스테이"},
		{"태그만 제거하고 텍스트 유지", "<b>제주</b> 바다뷰", "제주 바다뷰"},
		{"이미지 태그 제거", `숙소<img src="https://example.com/x.png">`, "숙소"},
		{"앞뒤 공백 정리", "  홍길동  ", "홍길동"},
		{"빈 문자열", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Sanitize(tt.input)
			if got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTextSanitizer_Idempotent(t *testing.T) {
	s := NewTextSanitizer()

	input := "<i>연남</i> 스테이"
	once := s.Sanitize(input)
	twice := s.Sanitize(once)

	if once != twice {
		t.Errorf("sanitize not idempotent: %q != %q", once, twice)
	}
}

func TestTextSanitizer_SanitizePtr(t *testing.T) {
	s := NewTextSanitizer()

	if got := s.SanitizePtr(nil); got != nil {
		t.Errorf("SanitizePtr(nil) = %v, want nil", got)
	}

	raw := "<b>서울시 마포구</b>"
	got := s.SanitizePtr(&raw)
	if got == nil || *got != "서울시 마포구" {
		t.Errorf("SanitizePtr = %v, want %q", got, "서울시 마포구")
	}
}
