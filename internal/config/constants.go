package config

// Application constants
const (
	AppName    = "pphistory"
	AppVersion = "1.2.0"

	// EnvPrefix namespaces every environment variable, e.g. PPH_BUILD_INPUT
	EnvPrefix = "PPH"

	// DefaultConfigFile is looked up in the working directory when no --config is given
	DefaultConfigFile = "pphistory.yaml"

	// TableColumns is the fixed logical column count of the record table
	TableColumns = 17
)

// Spreadsheet column headers
const (
	ColDate        = "DATE"
	ColDays        = "Days Maintained"
	ColSectionLink = "SECTION LINK"
	ColPP          = "PP"
	ColPPDiff      = "PP DIFF"
	ColFlag        = "flag"
	ColPlayer      = "PLAYER"
	ColPlayerLink  = "PLAYER LINK"
	ColJacket      = "Jacket"
	ColMap         = "MAP"
	ColMapLink     = "MAP link"
	ColSR          = "SR"
	ColSRBG        = "SR_BG"
	ColSRFG        = "SR_FG"
	ColAcc         = "ACC"
	ColOsuIcon     = "osu"
	ColOsuLink     = "osu link"
	ColYTIcon      = "youtube"
	ColYTLink      = "youtube link"
	ColRedditIcon  = "reddit"
	ColRedditLink  = "reddit link"
	ColXIcon       = "X"
	ColXLink       = "X link"
	ColReplay      = "Replay"
	ColRemarks     = "Remarks"
)

// ModColumns are the mod icon headers in slot order
var ModColumns = []string{"MOD1", "MOD2", "MOD3", "MOD4", "MOD5", "MOD6", "MOD7"}

// ReferenceColumns are the (icon, link) headers of the external services in column order
var ReferenceColumns = [][2]string{
	{ColOsuIcon, ColOsuLink},
	{ColYTIcon, ColYTLink},
	{ColRedditIcon, ColRedditLink},
	{ColXIcon, ColXLink},
}
