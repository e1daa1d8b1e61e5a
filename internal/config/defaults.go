package config

// Built-in template definition, used when the config file omits a key. It
// matches the standard simPRO catalogue import template.

// DefaultTemplateColumns is the standard simPRO catalogue import header.
var DefaultTemplateColumns = []string{
	"Part Number",
	"Description",
	"Supplier",
	"Supplier Part Number",
	"Cost ex Tax",
	"Sell ex Tax",
	"Tax Code",
	"UOM",
	"Barcode",
	"Manufacturer",
	"Brand",
	"Location",
	"Minimum Stock",
	"Maximum Stock",
	"Notes",
}

// DefaultDefaults fills columns most exports don't carry.
var DefaultDefaults = map[string]string{
	"Tax Code": "G",
	"UOM":      "ea",
}

// DefaultAliases covers raw header spellings common across e-commerce
// platform exports. Config files extend or replace these per tenant.
var DefaultAliases = map[string][]string{
	"Part Number":          {"part #", "sku", "item number", "product code", "item code"},
	"Description":          {"product name", "item description", "title"},
	"Supplier":             {"vendor", "supplier name"},
	"Supplier Part Number": {"vendor sku", "supplier sku", "mpn"},
	"Cost ex Tax":          {"cost", "cost price", "buy price", "unit cost"},
	"Sell ex Tax":          {"sell", "sell price", "price", "retail price"},
	"Tax Code":             {"taxcode", "tax", "gst code"},
	"UOM":                  {"unit", "unit of measure", "uom code"},
	"Barcode":              {"ean", "upc", "gtin"},
}

// DefaultAllowedTaxCodes is the accepted tax-code set.
var DefaultAllowedTaxCodes = []string{"G", "F", "E"}

// DefaultRequiredNonempty lists columns every row must populate.
var DefaultRequiredNonempty = []string{"Part Number"}

// DefaultRequiredNumeric lists columns whose values must be decimals.
var DefaultRequiredNumeric = []string{"Cost ex Tax", "Sell ex Tax"}

// DefaultTaxCodeColumn is the column checked against the allowed set.
const DefaultTaxCodeColumn = "Tax Code"

// Service defaults.
const (
	DefaultServerPort  = 8000
	DefaultMaxUploadMB = 32
	DefaultInputDir    = "input"
	DefaultOutputDir   = "output"
)
