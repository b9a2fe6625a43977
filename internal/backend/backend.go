// Package backend talks to the transmission daemon through the
// transmission-remote command line client.
package backend

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when the daemon knows no torrent with the id.
	ErrNotFound = errors.New("torrent not found")
	// ErrDaemonInactive is returned by CheckDaemon when nothing answers.
	ErrDaemonInactive = errors.New("transmission-daemon does not look active")
	// ErrEmptySource is returned by Add for blank input.
	ErrEmptySource = errors.New("nothing to add")
)

// Backend is the synchronous torrent daemon capability used by the screens.
type Backend interface {
	List(ctx context.Context) ([]Torrent, error)
	Info(ctx context.Context, id int64) (Torrent, error)
	Add(ctx context.Context, source string) error
	Remove(ctx context.Context, id int64, deleteData bool) error
	Start(ctx context.Context, id int64) error
	Stop(ctx context.Context, id int64) error
	Reannounce(ctx context.Context, id int64) error
}

// Status mirrors the daemon's torrent status codes.
type Status int

const (
	StatusStopped Status = iota
	StatusCheckWait
	StatusChecking
	StatusDownloadWait
	StatusDownloading
	StatusSeedWait
	StatusSeeding
)

func (s Status) String() string {
	switch s {
	case StatusStopped:
		return "Stopped"
	case StatusCheckWait:
		return "Queued to verify"
	case StatusChecking:
		return "Verifying"
	case StatusDownloadWait:
		return "Queued"
	case StatusDownloading:
		return "Downloading"
	case StatusSeedWait:
		return "Queued to seed"
	case StatusSeeding:
		return "Seeding"
	default:
		return fmt.Sprintf("Status %d", int(s))
	}
}

// Torrent is the subset of torrent fields the dashboard reads. Fields the
// daemon did not include in a reply keep their zero value.
type Torrent struct {
	ID                 int64         `json:"id"`
	Name               string        `json:"name"`
	HashString         string        `json:"hashString"`
	Status             Status        `json:"status"`
	Error              int           `json:"error"`
	ErrorString        string        `json:"errorString"`
	ETA                int64         `json:"eta"`
	LeftUntilDone      int64         `json:"leftUntilDone"`
	SizeWhenDone       int64         `json:"sizeWhenDone"`
	TotalSize          int64         `json:"totalSize"`
	DownloadedEver     int64         `json:"downloadedEver"`
	UploadedEver       int64         `json:"uploadedEver"`
	UploadRatio        float64       `json:"uploadRatio"`
	RateDownload       int64         `json:"rateDownload"`
	RateUpload         int64         `json:"rateUpload"`
	AddedDate          int64         `json:"addedDate"`
	ActivityDate       int64         `json:"activityDate"`
	DoneDate           int64         `json:"doneDate"`
	DownloadDir        string        `json:"downloadDir"`
	MagnetLink         string        `json:"magnetLink"`
	Comment            string        `json:"comment"`
	PeersConnected     int           `json:"peersConnected"`
	PeersGettingFromUs int           `json:"peersGettingFromUs"`
	PeersSendingToUs   int           `json:"peersSendingToUs"`
	Peers              []Peer        `json:"peers"`
	Files              []File        `json:"files"`
	TrackerStats       []TrackerStat `json:"trackerStats"`
	Labels             []string      `json:"labels"`
}

// Peer is one connected peer.
type Peer struct {
	Address      string  `json:"address"`
	ClientName   string  `json:"clientName"`
	Progress     float64 `json:"progress"`
	RateToClient int64   `json:"rateToClient"`
	RateToPeer   int64   `json:"rateToPeer"`
	FlagStr      string  `json:"flagStr"`
}

// File is one file inside a torrent.
type File struct {
	Name           string `json:"name"`
	Length         int64  `json:"length"`
	BytesCompleted int64  `json:"bytesCompleted"`
}

// TrackerStat summarises one tracker.
type TrackerStat struct {
	Host                  string `json:"host"`
	Announce              string `json:"announce"`
	LastAnnounceResult    string `json:"lastAnnounceResult"`
	LastAnnounceSucceeded bool   `json:"lastAnnounceSucceeded"`
	SeederCount           int    `json:"seederCount"`
	LeecherCount          int    `json:"leecherCount"`
}

// CommandError describes a failed transmission-remote or helper invocation.
type CommandError struct {
	Command string
	Args    []string
	Stderr  string
	Err     error
}

func (e *CommandError) Error() string {
	var b strings.Builder
	b.WriteString(e.Command)
	for _, a := range redact(e.Args) {
		b.WriteByte(' ')
		b.WriteString(a)
	}
	b.WriteString(": ")
	b.WriteString(e.Err.Error())
	if e.Stderr != "" {
		b.WriteString(": ")
		b.WriteString(e.Stderr)
	}
	return b.String()
}

func (e *CommandError) Unwrap() error { return e.Err }

// ResultError is a reply whose result field is not "success".
type ResultError struct {
	Op     string
	Result string
}

func (e *ResultError) Error() string {
	return fmt.Sprintf("%s: daemon replied %q", e.Op, e.Result)
}

// redact hides the value following an authentication flag.
func redact(args []string) []string {
	out := append([]string(nil), args...)
	for i := 0; i < len(out)-1; i++ {
		if out[i] == "-n" || out[i] == "--auth" {
			out[i+1] = "***"
		}
	}
	return out
}
