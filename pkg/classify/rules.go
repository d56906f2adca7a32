package classify

import (
	"fmt"
	"strings"
)

// Category names. These and the folder names below are part of the
// on-disk layout other tooling reads; changing them is a breaking change.
const (
	CategoryImages      = "images"
	CategoryDocuments   = "documents"
	CategoryVideos      = "videos"
	CategoryAudio       = "audio"
	CategoryArchives    = "archives"
	CategoryExecutables = "executables"
	CategoryOther       = "other"
)

// Document subcategory names
const (
	SubcategoryPDF        = "pdf"
	SubcategoryWord       = "word"
	SubcategoryExcel      = "excel"
	SubcategoryPowerPoint = "powerpoint"
	SubcategoryText       = "text"
	SubcategoryData       = "data"
	SubcategoryOther      = "other"
)

// Rule maps a category (or subcategory) to its folder and extension set
type Rule struct {
	Name       string
	Folder     string
	Extensions []string
}

// Rules holds the ordered classification tables
type Rules struct {
	// Categories are matched in order; the catch-all category has no extensions
	Categories []Rule
	// Subcategories apply only to the documents category
	Subcategories []Rule
	// Fallback is the category used when no rule matches
	Fallback Rule
	// SubFallback is the documents subcategory used when no rule matches
	SubFallback Rule
}

// DefaultRules returns the fixed classification tables
func DefaultRules() Rules {
	return Rules{
		Categories: []Rule{
			{Name: CategoryImages, Folder: "images", Extensions: []string{
				".jpg", ".jpeg", ".png", ".gif", ".bmp", ".svg", ".webp", ".tiff", ".tif", ".ico", ".psd", ".ai", ".eps",
			}},
			{Name: CategoryDocuments, Folder: "documents", Extensions: []string{
				".pdf", ".doc", ".docx", ".txt", ".rtf", ".odt", ".xls", ".xlsx", ".ppt", ".pptx", ".csv", ".xml", ".json",
			}},
			{Name: CategoryVideos, Folder: "videos", Extensions: []string{
				".mp4", ".avi", ".mov", ".wmv", ".flv", ".mkv", ".webm", ".m4v", ".3gp", ".mpg", ".mpeg", ".ts",
			}},
			{Name: CategoryAudio, Folder: "audio", Extensions: []string{
				".mp3", ".wav", ".flac", ".aac", ".ogg", ".wma", ".m4a", ".opus", ".aiff", ".mid", ".midi",
			}},
			{Name: CategoryArchives, Folder: "comprimidos", Extensions: []string{
				".zip", ".rar", ".7z", ".tar", ".gz", ".bz2", ".xz", ".cab", ".iso",
			}},
			{Name: CategoryExecutables, Folder: "ejecutables", Extensions: []string{
				".exe", ".msi", ".dmg", ".pkg", ".deb", ".rpm", ".app", ".bat", ".cmd", ".sh", ".dll", ".sys",
			}},
		},
		Subcategories: []Rule{
			{Name: SubcategoryPDF, Folder: "pdf", Extensions: []string{".pdf"}},
			{Name: SubcategoryWord, Folder: "word", Extensions: []string{".doc", ".docx"}},
			{Name: SubcategoryExcel, Folder: "excel", Extensions: []string{".xls", ".xlsx"}},
			{Name: SubcategoryPowerPoint, Folder: "powerpoint", Extensions: []string{".ppt", ".pptx"}},
			{Name: SubcategoryText, Folder: "texto", Extensions: []string{".txt", ".rtf", ".odt"}},
			{Name: SubcategoryData, Folder: "datos", Extensions: []string{".csv", ".xml", ".json"}},
		},
		Fallback:    Rule{Name: CategoryOther, Folder: "otros"},
		SubFallback: Rule{Name: SubcategoryOther, Folder: "otros"},
	}
}

// Validate checks that extension sets are disjoint and well formed
func (r Rules) Validate() error {
	if err := validateTable("category", r.Categories, r.Fallback); err != nil {
		return err
	}
	return validateTable("subcategory", r.Subcategories, r.SubFallback)
}

func validateTable(kind string, rules []Rule, fallback Rule) error {
	if fallback.Name == "" || fallback.Folder == "" {
		return fmt.Errorf("%s fallback must have a name and a folder", kind)
	}
	names := map[string]bool{fallback.Name: true}
	owner := make(map[string]string)
	for _, rule := range rules {
		if rule.Name == "" || rule.Folder == "" {
			return fmt.Errorf("%s rule must have a name and a folder", kind)
		}
		if names[rule.Name] {
			return fmt.Errorf("duplicate %s %q", kind, rule.Name)
		}
		names[rule.Name] = true

		for _, ext := range rule.Extensions {
			if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
				return fmt.Errorf("%s %q: extension %q must start with a dot", kind, rule.Name, ext)
			}
			key := strings.ToLower(ext)
			if prev, ok := owner[key]; ok {
				return fmt.Errorf("extension %q listed in both %s %q and %q", ext, kind, prev, rule.Name)
			}
			owner[key] = rule.Name
		}
	}
	return nil
}

// KnownExtensions returns the union of all category extension sets, in
// table order
func (r Rules) KnownExtensions() []string {
	var exts []string
	for _, rule := range r.Categories {
		for _, ext := range rule.Extensions {
			exts = append(exts, strings.ToLower(ext))
		}
	}
	return exts
}
