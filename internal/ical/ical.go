// Package ical renders normalized events as an iCalendar document.
//
// The output is byte-exact by contract: fixed property order, CRLF
// line endings and a hand-written Europe/Vienna VTIMEZONE. Calendar
// clients key update detection off stable UIDs and SEQUENCE numbers,
// so the rendering must not drift between releases.
package ical

import (
	"fmt"
	"strings"
	"time"

	"github.com/markus-roe/fhwien-dashboard-sub000/internal/domain"
)

const (
	// TZID names the single timezone all event times are rendered in.
	TZID = "Europe/Vienna"

	prodID    = "-//FH Wien Dashboard//Calendar Feed//EN"
	uidDomain = "fhwien.ac.at"
	uidPrefix = "fhwien-dashboard"

	crlf = "\r\n"
)

// ContentType is the media type of a serialized feed.
const ContentType = "text/calendar; charset=utf-8"

// Backslash first so escapes inserted for the other characters are not
// escaped again.
var textEscaper = strings.NewReplacer(
	"\\", "\\\\",
	";", "\\;",
	",", "\\,",
	"\r\n", "\\n",
	"\n", "\\n",
)

var textUnescaper = strings.NewReplacer(
	"\\\\", "\\",
	"\\;", ";",
	"\\,", ",",
	"\\n", "\n",
	"\\N", "\n",
)

// Escape applies iCalendar text escaping to a free-text value.
func Escape(s string) string {
	return textEscaper.Replace(s)
}

// Unescape reverses Escape.
func Unescape(s string) string {
	return textUnescaper.Replace(s)
}

// UID returns the stable identifier for an event. It must not change
// across re-exports of the same record, clients match cached entries
// against it.
func UID(e domain.Event) string {
	return fmt.Sprintf("%s-%s-%d@%s", uidPrefix, e.Kind, e.ID, uidDomain)
}

// Sequence derives the per-event update counter from the record's last
// modification time: epoch seconds mod 1e6. Two edits within the same
// second produce the same sequence; accepted, see design notes.
func Sequence(lastModified time.Time) int64 {
	if lastModified.IsZero() {
		return 0
	}
	return lastModified.Unix() % 1_000_000
}

// Serialize renders the events into a complete VCALENDAR document. now
// is stamped into each VEVENT's DTSTAMP (in UTC). The input order is
// preserved.
func Serialize(events []domain.Event, now time.Time) string {
	var b strings.Builder

	writeLine(&b, "BEGIN:VCALENDAR")
	writeLine(&b, "VERSION:2.0")
	writeLine(&b, "PRODID:"+prodID)
	writeLine(&b, "CALSCALE:GREGORIAN")
	writeTimezone(&b)

	dtstamp := now.UTC().Format("20060102T150405Z")
	for _, e := range events {
		writeEvent(&b, e, dtstamp)
	}

	writeLine(&b, "END:VCALENDAR")

	return b.String()
}

func writeEvent(b *strings.Builder, e domain.Event, dtstamp string) {
	writeLine(b, "BEGIN:VEVENT")
	writeLine(b, "UID:"+UID(e))
	writeLine(b, "DTSTAMP:"+dtstamp)
	writeLine(b, "DTSTART;TZID="+TZID+":"+e.Start.Format("20060102T150405"))
	writeLine(b, "DTEND;TZID="+TZID+":"+e.End.Format("20060102T150405"))
	writeLine(b, "SUMMARY:"+Escape(e.Title))
	if e.Description != "" {
		writeLine(b, "DESCRIPTION:"+Escape(e.Description))
	}
	writeLine(b, "LOCATION:"+Escape(e.Location))
	writeLine(b, "STATUS:CONFIRMED")
	writeLine(b, fmt.Sprintf("SEQUENCE:%d", Sequence(e.LastModified)))
	if !e.LastModified.IsZero() {
		writeLine(b, "LAST-MODIFIED:"+e.LastModified.UTC().Format("20060102T150405Z"))
	}
	writeLine(b, "END:VEVENT")
}

// writeTimezone emits a fixed DST rule for Central European Time:
// daylight starts the last Sunday of March at 02:00 local, standard
// resumes the last Sunday of October at 03:00 local. Valid for the
// current EU rules, not historically exact and not adaptable to other
// zones.
func writeTimezone(b *strings.Builder) {
	writeLine(b, "BEGIN:VTIMEZONE")
	writeLine(b, "TZID:"+TZID)
	writeLine(b, "BEGIN:STANDARD")
	writeLine(b, "DTSTART:19701025T030000")
	writeLine(b, "RRULE:FREQ=YEARLY;BYMONTH=10;BYDAY=-1SU")
	writeLine(b, "TZOFFSETFROM:+0200")
	writeLine(b, "TZOFFSETTO:+0100")
	writeLine(b, "TZNAME:CET")
	writeLine(b, "END:STANDARD")
	writeLine(b, "BEGIN:DAYLIGHT")
	writeLine(b, "DTSTART:19700329T020000")
	writeLine(b, "RRULE:FREQ=YEARLY;BYMONTH=3;BYDAY=-1SU")
	writeLine(b, "TZOFFSETFROM:+0100")
	writeLine(b, "TZOFFSETTO:+0200")
	writeLine(b, "TZNAME:CEST")
	writeLine(b, "END:DAYLIGHT")
	writeLine(b, "END:VTIMEZONE")
}

func writeLine(b *strings.Builder, line string) {
	b.WriteString(line)
	b.WriteString(crlf)
}
