package compiler

// fallbackIcon renders for any icon name the generator invented. It exists in
// every lucide-react version pinned by the package catalog.
const fallbackIcon = "HelpCircle"

// knownIcons is the allow-list of icon symbols the pinned lucide-react
// version is known to export. The generator frequently hallucinates icon
// names; anything outside this set is aliased to the fallback at import time.
var knownIcons = map[string]bool{
	"Activity": true, "AlertCircle": true, "AlertTriangle": true,
	"Archive": true, "ArrowDown": true, "ArrowLeft": true, "ArrowRight": true,
	"ArrowUp": true, "Award": true, "BarChart": true, "BarChart2": true,
	"Bell": true, "Bookmark": true, "Box": true, "Briefcase": true,
	"Calendar": true, "Camera": true, "Check": true, "CheckCircle": true,
	"CheckSquare": true, "ChevronDown": true, "ChevronLeft": true,
	"ChevronRight": true, "ChevronUp": true, "Circle": true, "Clipboard": true,
	"Clock": true, "Cloud": true, "Code": true, "Copy": true,
	"CreditCard": true, "Database": true, "Download": true, "Edit": true,
	"Edit2": true, "Edit3": true, "ExternalLink": true, "Eye": true,
	"EyeOff": true, "Facebook": true, "File": true, "FileText": true,
	"Filter": true, "Flag": true, "Folder": true, "Gift": true,
	"Github": true, "Globe": true, "Grid": true, "Heart": true,
	"HelpCircle": true, "Home": true, "Image": true, "Inbox": true,
	"Info": true, "Instagram": true, "Layers": true, "Layout": true,
	"Link": true, "Linkedin": true, "List": true,
	"Loader": true, "Loader2": true, "Lock": true, "LogIn": true,
	"LogOut": true, "Mail": true, "Map": true, "MapPin": true,
	"Menu": true, "MessageCircle": true, "MessageSquare": true, "Mic": true,
	"Minus": true, "Monitor": true, "Moon": true, "MoreHorizontal": true,
	"MoreVertical": true, "Music": true, "Package": true, "Paperclip": true,
	"Pause": true, "Pencil": true, "Phone": true, "PieChart": true,
	"Play": true, "Plus": true, "PlusCircle": true, "Printer": true,
	"RefreshCw": true, "Repeat": true, "Save": true, "Search": true,
	"Send": true, "Settings": true, "Share": true, "Share2": true,
	"Shield": true, "ShoppingBag": true, "ShoppingCart": true, "Smartphone": true,
	"Square": true, "Star": true, "Sun": true, "Tag": true,
	"Target": true, "Terminal": true, "ThumbsDown": true, "ThumbsUp": true,
	"Trash": true, "Trash2": true, "TrendingDown": true, "TrendingUp": true,
	"Truck": true, "Twitter": true, "Upload": true, "User": true,
	"UserMinus": true, "UserPlus": true, "Users": true, "Video": true,
	"Wallet": true, "Wifi": true, "X": true, "XCircle": true,
	"Youtube": true, "Zap": true, "ZoomIn": true, "ZoomOut": true,
}
