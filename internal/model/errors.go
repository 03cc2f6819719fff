// Package model 은 도메인 모델을 정의한다.
package model

import "fmt"

// APIError 는 통일 에러 포맷을 나타낸다.
// UI에 표시할 원인 카테고리와 대처 방법을 포함한다.
type APIError struct {
	Code     string // 에러 코드
	Message  string // 에러 메시지
	Category string // 카테고리: auth, validation, booking, import, system
	Action   string // 사용자 대처 방법
}

// Error 는 error 인터페이스를 구현한다.
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 정의된 에러 코드
const (
	ErrCodeUnauthorized        = "UNAUTHORIZED"
	ErrCodePropertyRequired    = "PROPERTY_REQUIRED"
	ErrCodePropertyNotFound    = "PROPERTY_NOT_FOUND"
	ErrCodePropertyLimit       = "PROPERTY_LIMIT"
	ErrCodeReservationNotFound = "RESERVATION_NOT_FOUND"
	ErrCodeSubscriberNotFound  = "SUBSCRIBER_NOT_FOUND"
	ErrCodeInvalidDateRange    = "INVALID_DATE_RANGE"
	ErrCodeInvalidPhone        = "INVALID_PHONE"
	ErrCodeMissingFields       = "MISSING_REQUIRED_FIELDS"
	ErrCodeUnsupportedFile     = "UNSUPPORTED_FILE_TYPE"
	ErrCodeImportNoPhones      = "IMPORT_NO_PHONES"
	ErrCodeNotificationStub    = "NOTIFICATION_NOT_IMPLEMENTED"
	ErrCodeUserNotFound        = "USER_NOT_FOUND"
)

// NewAuthRequiredError 는 미인증 상태로 조작을 시도한 경우의 에러를 생성한다.
func NewAuthRequiredError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "로그인이 필요합니다.",
		Category: "auth",
		Action:   "로그인 후 다시 시도해주세요.",
	}
}

// NewPropertyRequiredError 는 숙소 선택 없이 숙소 단위 조작을 시도한 경우의 에러를 생성한다.
func NewPropertyRequiredError() *APIError {
	return &APIError{
		Code:     ErrCodePropertyRequired,
		Message:  "로그인 및 숙소 선택이 필요합니다.",
		Category: "auth",
		Action:   "숙소를 먼저 선택해주세요.",
	}
}

// NewPropertyNotFoundError 는 숙소를 찾을 수 없는 경우의 에러를 생성한다.
// 다른 사용자 소유의 숙소에 접근한 경우에도 동일한 에러를 반환한다.
func NewPropertyNotFoundError(propertyID string) *APIError {
	return &APIError{
		Code:     ErrCodePropertyNotFound,
		Message:  fmt.Sprintf("숙소를 찾을 수 없습니다: %s", propertyID),
		Category: "booking",
		Action:   "숙소 목록을 새로고침한 후 다시 시도해주세요.",
	}
}

// NewPropertyLimitError 는 숙소 등록 상한 초과 에러를 생성한다.
func NewPropertyLimitError(limit int) *APIError {
	return &APIError{
		Code:     ErrCodePropertyLimit,
		Message:  fmt.Sprintf("숙소는 최대 %d개까지 등록할 수 있습니다.", limit),
		Category: "validation",
		Action:   "사용하지 않는 숙소를 삭제한 후 다시 등록해주세요.",
	}
}

// NewReservationNotFoundError 는 예약을 찾을 수 없는 경우의 에러를 생성한다.
func NewReservationNotFoundError(reservationID string) *APIError {
	return &APIError{
		Code:     ErrCodeReservationNotFound,
		Message:  fmt.Sprintf("예약을 찾을 수 없습니다: %s", reservationID),
		Category: "booking",
		Action:   "예약 목록을 새로고침한 후 다시 시도해주세요.",
	}
}

// NewSubscriberNotFoundError 는 구독자를 찾을 수 없는 경우의 에러를 생성한다.
func NewSubscriberNotFoundError(subscriberID string) *APIError {
	return &APIError{
		Code:     ErrCodeSubscriberNotFound,
		Message:  fmt.Sprintf("구독자를 찾을 수 없습니다: %s", subscriberID),
		Category: "booking",
		Action:   "구독자 목록을 새로고침한 후 다시 시도해주세요.",
	}
}

// NewInvalidDateRangeError 는 체크아웃 날짜가 체크인 날짜 이전인 경우의 에러를 생성한다.
func NewInvalidDateRangeError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidDateRange,
		Message:  "체크아웃 날짜는 체크인 날짜보다 뒤여야 합니다.",
		Category: "validation",
		Action:   "체크인/체크아웃 날짜를 확인해주세요.",
	}
}

// NewInvalidPhoneError 는 전화번호 형식이 유효하지 않은 경우의 에러를 생성한다.
// 숫자만 남겼을 때 10자리 또는 11자리가 아닌 번호가 해당된다.
func NewInvalidPhoneError(phone string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidPhone,
		Message:  fmt.Sprintf("유효하지 않은 전화번호입니다: %s", phone),
		Category: "validation",
		Action:   "10자리 또는 11자리 전화번호를 입력해주세요.",
	}
}

// NewMissingFieldsError 는 필수 입력값 누락 에러를 생성한다.
func NewMissingFieldsError(fields string) *APIError {
	return &APIError{
		Code:     ErrCodeMissingFields,
		Message:  fmt.Sprintf("필수 항목이 누락되었습니다: %s", fields),
		Category: "validation",
		Action:   "모든 필수 항목을 입력해주세요.",
	}
}

// NewUnsupportedFileError 는 지원하지 않는 파일 형식 에러를 생성한다.
func NewUnsupportedFileError(ext string) *APIError {
	return &APIError{
		Code:     ErrCodeUnsupportedFile,
		Message:  fmt.Sprintf("지원하지 않는 파일 형식입니다: %s", ext),
		Category: "import",
		Action:   "Excel 파일(.xlsx, .xls) 또는 CSV 파일만 업로드 가능합니다.",
	}
}

// NewImportNoPhonesError 는 업로드된 파일에서 전화번호를 찾지 못한 경우의 에러를 생성한다.
func NewImportNoPhonesError() *APIError {
	return &APIError{
		Code:     ErrCodeImportNoPhones,
		Message:  "전화번호를 찾을 수 없습니다.",
		Category: "import",
		Action:   "Excel 파일의 첫 번째 열에 전화번호가 있는지 확인해주세요.",
	}
}

// NewNotificationStubError 는 미구현 알림 발송 기능 호출 시의 에러를 생성한다.
func NewNotificationStubError() *APIError {
	return &APIError{
		Code:     ErrCodeNotificationStub,
		Message:  "알림 기능은 아직 구현되지 않았습니다.",
		Category: "system",
		Action:   "알림 발송 연동이 제공될 때까지 기다려주세요.",
	}
}

// NewUserNotFoundError 는 사용자를 찾을 수 없는 경우의 에러를 생성한다.
func NewUserNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeUserNotFound,
		Message:  "사용자를 찾을 수 없습니다.",
		Category: "auth",
		Action:   "다시 로그인해주세요.",
	}
}
