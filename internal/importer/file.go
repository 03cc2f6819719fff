package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/minwoo/stayman/internal/model"
)

// supportedExtensions 는 가져오기를 허용하는 파일 확장자.
var supportedExtensions = map[string]bool{
	".xlsx": true,
	".xls":  true,
	".csv":  true,
}

// ParseFile 은 업로드된 파일을 격자(행×열 문자열)로 파싱한다.
// 확장자는 대소문자를 구분하지 않으며, 지원하지 않는 형식이나
// 파싱 불가능한 내용이면 APIError를 반환한다.
func ParseFile(filename string, data []byte) ([][]string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !supportedExtensions[ext] {
		return nil, model.NewUnsupportedFileError(ext)
	}

	switch ext {
	case ".csv":
		return parseCSV(data)
	default:
		return parseExcel(data)
	}
}

// ExtractPhonesFromFile 은 파일 파싱과 전화번호 추출을 한 번에 수행한다.
// 전화번호가 하나도 없으면 IMPORT_NO_PHONES 에러를 반환한다.
func ExtractPhonesFromFile(filename string, data []byte) ([]string, error) {
	rows, err := ParseFile(filename, data)
	if err != nil {
		return nil, err
	}

	phones := ExtractPhones(rows)
	if len(phones) == 0 {
		return nil, model.NewImportNoPhonesError()
	}

	return phones, nil
}

// parseExcel 은 Excel 파일의 첫 시트를 격자로 읽는다.
// 구형 .xls 파일 등 파싱에 실패하면 IMPORT_NO_PHONES가 아닌
// 형식 에러를 사용자에게 돌려준다.
func parseExcel(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, &model.APIError{
			Code:     model.ErrCodeUnsupportedFile,
			Message:  "Excel 파일을 읽을 수 없습니다.",
			Category: "import",
			Action:   "파일이 손상되지 않았는지 확인하고 .xlsx 형식으로 다시 저장해주세요.",
		}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return [][]string{}, nil
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet rows: %w", err)
	}

	return rows, nil
}

// parseCSV 는 CSV 파일을 격자로 읽는다. 행마다 열 수가 달라도 허용한다.
func parseCSV(data []byte) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows := [][]string{}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &model.APIError{
				Code:     model.ErrCodeUnsupportedFile,
				Message:  "CSV 파일을 읽을 수 없습니다.",
				Category: "import",
				Action:   "파일 인코딩과 구분자를 확인해주세요.",
			}
		}
		rows = append(rows, record)
	}

	return rows, nil
}
