package format

// builtinExt is one row of the compile-time extension/MIME table.
type builtinExt struct {
	Extension string
	Mime      string
}

const (
	mimeText     = "text/plain"
	mimeHTML     = "text/html"
	mimeURIList  = "text/uri-list"
	mimeNotes    = "application/x-copyq-item-notes"
	mimeXML      = "text/xml"
)

// builtins is the built-in extension table, in lookup priority order. A
// longer, more specific suffix (e.g. "_note.txt") is listed before a
// shorter generic one (".txt") so suffix matching in ByFile and byBuiltinFile
// finds the specific form first. ".xml" appears twice, once for
// "application/xml" and once for "text/xml": these are distinct MIME
// strings that both write to a ".xml" file, and ByFormat needs a row for
// each so both resolve on direction W; byBuiltinFile's suffix match on
// read only ever needs the first of the two.
var builtins = []builtinExt{
	{"_note.txt", mimeNotes},
	{".bmp", "image/bmp"},
	{".gif", "image/gif"},
	{".html", mimeHTML},
	{"_inkscape.svg", "image/x-inkscape-svg-compressed"},
	{".jpg", "image/jpeg"},
	{".png", "image/png"},
	{".txt", mimeText},
	{".uri", mimeURIList},
	{".xml", "application/xml"},
	{"_xml.svg", "image/svg+xml"},
	{".xml", mimeXML},
}

var videoExtensions = []string{"avi", "mkv", "mp4", "mpg", "mpeg", "ogv", "flv"}

var audioExtensions = []string{"mp3", "wav", "ogg", "m4a"}

var imageExtensions = []string{
	"png", "jpg", "gif", "bmp", "svg", "tga", "tiff", "psd", "xcf",
	"ico", "pbm", "ppm", "eps", "pcx", "jpx", "jp2",
}

// archiveExtensions includes "r##" as a stand-in for the r00-r99 family,
// matched separately by isArchiveRDigits.
var archiveExtensions = []string{"zip", "7z", "tar", "rar", "arj", "r##"}

var textExtensions = []string{
	"txt", "log", "xml", "html", "htm", "pdf", "doc", "docx",
	"odt", "xls", "rtf", "csv", "ppt",
}
