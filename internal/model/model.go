package model

import "time"

// Match represents one bot run against the referee.
type Match struct {
	ID         string     `json:"id"`
	Strategy   string     `json:"strategy"`
	Sites      int        `json:"sites"`
	Links      int        `json:"links"`
	Turns      int        `json:"turns"`
	Status     string     `json:"status"` // active, finished, failed
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// SideTotals are one side's army and production at the start of a turn.
type SideTotals struct {
	Army       int `json:"army"`
	Production int `json:"production"`
}

// SiteOutlook is the end-of-horizon forecast of a site, in referee ids.
type SiteOutlook struct {
	Site     int `json:"site"`
	Holder   int `json:"holder"`
	Garrison int `json:"garrison"`
}

// Move is one deployment as written to the referee.
type Move struct {
	Source int `json:"source"`
	Dest   int `json:"dest"`
	Count  int `json:"count"`
}

// TurnRecord captures what the bot saw and did on one turn.
type TurnRecord struct {
	MatchID       string        `json:"match_id"`
	Turn          int           `json:"turn"`
	Friendly      SideTotals    `json:"friendly"`
	Hostile       SideTotals    `json:"hostile"`
	Forces        int           `json:"forces"`
	Detonators    int           `json:"detonators"`
	Output        string        `json:"output"`
	Moves         []Move        `json:"moves,omitempty"`
	Outlook       []SiteOutlook `json:"outlook,omitempty"`
	Rejected      string        `json:"rejected,omitempty"` // contract violation, if the strategy output was dropped
	ElapsedMicros int64         `json:"elapsed_us"`
	CreatedAt     time.Time     `json:"created_at"`
}
