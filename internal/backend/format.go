package backend

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

const (
	day  = 24 * 60 * 60
	hour = 60 * 60
)

// FormatETA renders seconds remaining. Torrents with nothing left are
// "Done"; the daemon reports unknown estimates as zero or negative.
func FormatETA(eta, left int64) string {
	if left == 0 {
		return "Done"
	}
	if eta <= 0 {
		return "Unknown"
	}
	days := eta / day
	clock := fmt.Sprintf("%02d:%02d:%02d", (eta%day)/hour, (eta%hour)/60, eta%60)
	switch {
	case days == 1:
		return "1 day " + clock
	case days > 1:
		return fmt.Sprintf("%d days %s", days, clock)
	}
	return clock
}

// FormatBytes renders a size with 1000-based units.
func FormatBytes(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.Bytes(uint64(n))
}

// FormatRate renders a transfer rate with an arrow prefix.
func FormatRate(arrow string, bytesPerSecond int64) string {
	return arrow + " " + FormatBytes(bytesPerSecond) + "/s"
}

// FormatDate renders a unix timestamp, or "-" when unset.
func FormatDate(unix int64) string {
	if unix <= 0 {
		return "-"
	}
	return time.Unix(unix, 0).Format("2006-01-02 15:04")
}

// Progress is the completed fraction in [0, 1].
func (t Torrent) Progress() float64 {
	if t.LeftUntilDone == 0 {
		return 1
	}
	if t.SizeWhenDone <= 0 {
		return 0
	}
	p := 1 - float64(t.LeftUntilDone)/float64(t.SizeWhenDone)
	if p < 0 {
		return 0
	}
	return p
}

// PercentDone renders Progress as "42.00 %".
func (t Torrent) PercentDone() string {
	return fmt.Sprintf("%.2f %%", t.Progress()*100)
}

// ETAString renders the remaining time.
func (t Torrent) ETAString() string {
	return FormatETA(t.ETA, t.LeftUntilDone)
}

// DownloadRate renders the current download rate.
func (t Torrent) DownloadRate() string {
	return FormatRate("↓", t.RateDownload)
}

// UploadRate renders the current upload rate.
func (t Torrent) UploadRate() string {
	return FormatRate("↑", t.RateUpload)
}

// Size renders the wanted size.
func (t Torrent) Size() string {
	return FormatBytes(t.SizeWhenDone)
}

// Downloaded renders how much of the wanted size is present.
func (t Torrent) Downloaded() string {
	have := t.SizeWhenDone - t.LeftUntilDone
	return FormatBytes(have)
}

// AddedOn renders the date the torrent was added.
func (t Torrent) AddedOn() string {
	return FormatDate(t.AddedDate)
}

// AddedAgo renders the age relative to now, e.g. "3 days ago".
func (t Torrent) AddedAgo() string {
	if t.AddedDate <= 0 {
		return "-"
	}
	return humanize.Time(time.Unix(t.AddedDate, 0))
}

// Ratio renders the upload ratio.
func (t Torrent) Ratio() string {
	if t.UploadRatio < 0 {
		return "None"
	}
	return fmt.Sprintf("%.2f", t.UploadRatio)
}

// Magnet returns the magnet link reported by the daemon, or builds a bare
// one from the info hash.
func (t Torrent) Magnet() string {
	if t.MagnetLink != "" {
		return t.MagnetLink
	}
	if t.HashString == "" {
		return ""
	}
	return "magnet:?xt=urn:btih:" + t.HashString
}

// PeerClients lists distinct client names of connected peers.
func (t Torrent) PeerClients() string {
	seen := make(map[string]bool, len(t.Peers))
	names := make([]string, 0, len(t.Peers))
	for _, p := range t.Peers {
		if p.ClientName == "" || seen[p.ClientName] {
			continue
		}
		seen[p.ClientName] = true
		names = append(names, p.ClientName)
	}
	return strings.Join(names, ", ")
}
