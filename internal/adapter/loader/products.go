package loader

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"supportbot/internal/domain"
)

// Column aliases seen in catalog exports. Keys are lowercased header names.
var productColumnAliases = map[string]string{
	"product_name":   "name",
	"title":          "name",
	"stock_quantity": "stock",
	"quantity":       "stock",
	"in_stock":       "stock",
}

// ParseProductsCSV reads a catalog with a header row. Only the name column is
// required; unknown columns are kept as attributes.
func ParseProductsCSV(r io.Reader) ([]domain.Product, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty catalog", domain.ErrMalformedRecord)
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	columns := make([]string, len(header))
	hasName := false
	for i, h := range header {
		col := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if alias, ok := productColumnAliases[col]; ok {
			col = alias
		}
		columns[i] = col
		if col == "name" {
			hasName = true
		}
	}
	if !hasName {
		return nil, fmt.Errorf("%w: catalog header has no name column: %v", domain.ErrMalformedRecord, header)
	}

	var products []domain.Product
	for row := 2; ; row++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}

		fields := make(map[string]interface{}, len(columns))
		for i, col := range columns {
			if i < len(record) {
				fields[col] = strings.TrimSpace(record[i])
			}
		}

		p, err := productFromFields(fields)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		products = append(products, p)
	}

	return products, nil
}

// ParseProductsJSONL reads one JSON object per line. Blank lines are skipped.
func ParseProductsJSONL(r io.Reader) ([]domain.Product, error) {
	var products []domain.Product

	err := scanJSONL(r, func(line int, record map[string]interface{}) error {
		if v, ok := record["product_name"]; ok {
			if _, has := record["name"]; !has {
				record["name"] = v
				delete(record, "product_name")
			}
		}
		if err := validateRecord(productRecordSchema, record); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		p, err := productFromFields(record)
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		products = append(products, p)
		return nil
	})

	return products, err
}

func productFromFields(fields map[string]interface{}) (domain.Product, error) {
	var p domain.Product

	for key, raw := range fields {
		if alias, ok := productColumnAliases[key]; ok {
			key = alias
		}

		switch key {
		case "name":
			p.Name = asString(raw)
		case "category":
			p.Category = asString(raw)
		case "style":
			p.Style = asString(raw)
		case "gender":
			p.Gender = strings.ToLower(asString(raw))
		case "price":
			price, err := parsePrice(raw)
			if err != nil {
				return p, err
			}
			p.Price = price
		case "stock":
			stock, err := parseStock(raw)
			if err != nil {
				return p, err
			}
			p.Stock = stock
		default:
			if raw == nil {
				continue
			}
			if p.Attributes == nil {
				p.Attributes = make(map[string]string)
			}
			p.Attributes[key] = asString(raw)
		}
	}

	if p.Name == "" {
		return p, fmt.Errorf("%w: product without name", domain.ErrMalformedRecord)
	}

	return p, nil
}

func asString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case []interface{}, map[string]interface{}:
		b, _ := json.Marshal(t)
		return string(b)
	default:
		return fmt.Sprint(t)
	}
}

func parsePrice(v interface{}) (float64, error) {
	s := strings.TrimSpace(asString(v))
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, nil
	}
	price, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid price %q", domain.ErrMalformedRecord, s)
	}
	return price, nil
}

func parseStock(v interface{}) (int, error) {
	s := strings.ToLower(strings.TrimSpace(asString(v)))
	switch s {
	case "":
		return 0, nil
	case "true", "yes", "in stock":
		return 1, nil
	case "false", "no", "out of stock":
		return 0, nil
	}
	stock, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid stock %q", domain.ErrMalformedRecord, s)
	}
	return stock, nil
}

func scanJSONL(r io.Reader, fn func(line int, record map[string]interface{}) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}

		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.UseNumber()
		var record map[string]interface{}
		if err := dec.Decode(&record); err != nil {
			return fmt.Errorf("line %d: %w: %v", line, domain.ErrMalformedRecord, err)
		}
		if err := fn(line, record); err != nil {
			return err
		}
	}

	return scanner.Err()
}
