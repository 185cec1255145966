package loader

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"supportbot/config"
	"supportbot/internal/adapter/fs"
	"supportbot/internal/domain"
	"supportbot/internal/port"
)

// Sources names the resolved data files.
type Sources struct {
	ProductsPath string
	FAQPath      string
}

// Resolve finds the catalog and FAQ files. Explicit paths win over pattern
// discovery in the data directory.
func Resolve(cfg config.DataConfig, dataDir string) (Sources, error) {
	var src Sources
	var walker port.FileWalker = fs.NewWalker(nil, []string{".supportbot/**", "**/.git/**"})

	if cfg.ProductsFile != "" {
		src.ProductsPath = anchor(cfg.ProductsFile, dataDir)
	} else {
		p, err := walker.Find(dataDir, cfg.ProductPatterns)
		if err != nil {
			return src, fmt.Errorf("product catalog: %w", err)
		}
		src.ProductsPath = p
	}

	if cfg.FAQFile != "" {
		src.FAQPath = anchor(cfg.FAQFile, dataDir)
	} else {
		p, err := walker.Find(dataDir, cfg.FAQPatterns)
		if err != nil {
			return src, fmt.Errorf("faq store: %w", err)
		}
		src.FAQPath = p
	}

	return src, nil
}

// Load reads both knowledge sources. Any missing or malformed file aborts.
func Load(src Sources) (domain.KnowledgeBase, error) {
	productData, err := os.ReadFile(src.ProductsPath)
	if err != nil {
		return domain.KnowledgeBase{}, fmt.Errorf("read product catalog: %w", err)
	}
	faqData, err := os.ReadFile(src.FAQPath)
	if err != nil {
		return domain.KnowledgeBase{}, fmt.Errorf("read faq store: %w", err)
	}

	products, err := parseProducts(src.ProductsPath, productData)
	if err != nil {
		return domain.KnowledgeBase{}, fmt.Errorf("parse %s: %w", src.ProductsPath, err)
	}
	faqs, err := parseFAQs(src.FAQPath, faqData)
	if err != nil {
		return domain.KnowledgeBase{}, fmt.Errorf("parse %s: %w", src.FAQPath, err)
	}

	return domain.KnowledgeBase{
		Products:    products,
		FAQs:        faqs,
		Fingerprint: Fingerprint(productData, faqData),
		LoadedAt:    time.Now(),
	}, nil
}

// LoadFromConfig resolves and loads the data files under root.
func LoadFromConfig(cfg *config.Config, root string) (domain.KnowledgeBase, Sources, error) {
	src, err := Resolve(cfg.Data, cfg.ResolveDataDir(root))
	if err != nil {
		return domain.KnowledgeBase{}, src, err
	}
	kb, err := Load(src)
	return kb, src, err
}

// FingerprintFiles hashes the data files named by src without parsing them.
func FingerprintFiles(src Sources) (string, error) {
	productData, err := os.ReadFile(src.ProductsPath)
	if err != nil {
		return "", fmt.Errorf("read product catalog: %w", err)
	}
	faqData, err := os.ReadFile(src.FAQPath)
	if err != nil {
		return "", fmt.Errorf("read faq store: %w", err)
	}
	return Fingerprint(productData, faqData), nil
}

// Fingerprint identifies the raw content of the data files.
func Fingerprint(productData, faqData []byte) string {
	h := sha256.New()
	h.Write(productData)
	h.Write([]byte{0})
	h.Write(faqData)
	return hex.EncodeToString(h.Sum(nil)[:8])
}

func parseProducts(path string, data []byte) ([]domain.Product, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ParseProductsCSV(bytes.NewReader(data))
	case ".jsonl", ".ndjson":
		return ParseProductsJSONL(bytes.NewReader(data))
	default:
		return nil, fmt.Errorf("%w: unsupported catalog format %q", domain.ErrMalformedRecord, filepath.Ext(path))
	}
}

func parseFAQs(path string, data []byte) ([]domain.FAQ, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jsonl", ".ndjson":
		return ParseFAQsJSONL(bytes.NewReader(data))
	case ".txt":
		return ParseFAQText(bytes.NewReader(data))
	default:
		return nil, fmt.Errorf("%w: unsupported faq format %q", domain.ErrMalformedRecord, filepath.Ext(path))
	}
}

func anchor(path, dir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}
