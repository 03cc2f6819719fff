// Package importer 는 스프레드시트에서 전화번호를 추출하는 기능을 제공한다.
// Excel(.xlsx, .xls)과 CSV 파일을 받아 구독자 일괄 등록용 번호 목록을 만든다.
package importer

import (
	"strings"
)

// phoneHeaderKeywords 는 전화번호 열을 찾기 위한 헤더 키워드.
// 첫 행의 셀에 이 중 하나라도 포함되면 그 열을 전화번호 열로 사용한다.
var phoneHeaderKeywords = []string{"전화번호", "phone", "연락처", "tel", "휴대폰", "mobile"}

// ExtractPhones 는 스프레드시트 격자에서 전화번호 목록을 추출한다.
//
// 첫 행에서 전화번호 헤더 키워드를 찾으면 그 열의 2행 이후를 사용하고,
// 키워드가 없으면 첫 번째 열을 1행부터 사용한다.
// 각 셀은 숫자만 남긴 후 10자리 또는 11자리인 경우에만 채택하며,
// 하이픈으로 구분된 표준 형식으로 정규화한다. 중복은 첫 등장만 남긴다.
func ExtractPhones(rows [][]string) []string {
	if len(rows) == 0 {
		return []string{}
	}

	column, hasHeader := findPhoneColumn(rows[0])
	start := 0
	if hasHeader {
		start = 1
	}

	phones := []string{}
	seen := map[string]bool{}
	for _, row := range rows[start:] {
		if column >= len(row) {
			continue
		}
		phone, ok := NormalizePhone(row[column])
		if !ok || seen[phone] {
			continue
		}
		seen[phone] = true
		phones = append(phones, phone)
	}

	return phones
}

// findPhoneColumn 은 첫 행에서 전화번호 헤더의 열 위치를 찾는다.
// 못 찾으면 첫 번째 열과 헤더 없음을 반환한다.
func findPhoneColumn(headerRow []string) (int, bool) {
	for i, cell := range headerRow {
		lowered := strings.ToLower(strings.TrimSpace(cell))
		for _, keyword := range phoneHeaderKeywords {
			if strings.Contains(lowered, keyword) {
				return i, true
			}
		}
	}
	return 0, false
}

// NormalizePhone 은 셀 값을 표준 전화번호 형식으로 정규화한다.
//
// 숫자 이외의 문자를 제거한 뒤 11자리는 XXX-XXXX-XXXX,
// 10자리는 XXX-XXX-XXXX 형식으로 만든다.
// 그 외의 자릿수는 전화번호로 취급하지 않는다.
func NormalizePhone(cell string) (string, bool) {
	var digits strings.Builder
	for _, r := range cell {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}

	d := digits.String()
	switch len(d) {
	case 11:
		return d[:3] + "-" + d[3:7] + "-" + d[7:], true
	case 10:
		return d[:3] + "-" + d[3:6] + "-" + d[6:], true
	default:
		return "", false
	}
}
