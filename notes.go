package zipdump

import (
	"time"
)

// hostSystems maps the upper byte of "version made by" to the host system, including the Info-ZIP additions.
var hostSystems = map[uint8]string{
	0:  "0 - MS-DOS and OS/2 (FAT / VFAT / FAT32 file systems)",
	1:  "1 - Amiga",
	2:  "2 - OpenVMS",
	3:  "3 - UNIX",
	4:  "4 - VM/CMS",
	5:  "5 - Atari ST",
	6:  "6 - OS/2 H.P.F.S.",
	7:  "7 - Macintosh",
	8:  "8 - Z-System",
	9:  "9 - CP/M",
	10: "10 - Windows NTFS or TOPS-20(by Info-ZIP)",
	11: "11 - MVS (OS/390 - Z/OS) or NTFS(by Info-ZIP)",
	12: "12 - VSE or SMS/QDOS(by Info-ZIP)",
	13: "13 - Acorn Risc",
	14: "14 - VFAT",
	15: "15 - alternate MVS",
	16: "16 - BeOS",
	17: "17 - Tandem",
	18: "18 - OS/400",
	19: "19 - OS/X (Darwin)",
	30: "30 - AtheOS/Syllable(by Info-ZIP)",
}

// version explains a "version made by" or "version needed to extract" field.
func (d *decoder) version(v uint16) {
	host, ver := uint8(v>>8), uint8(v)

	if s, ok := hostSystems[host]; ok {
		d.note(s)
	} else {
		d.notef("%d - unused", host)
	}

	d.notef("ver %d.%d", ver/10, ver%10)
}

// flagBits are the method-independent general purpose bits 3 through 15.
var flagBits = []struct {
	mask uint16
	text string
}{
	{0x0008, "Bit 3: crc-32, compressed size and uncompressed size are set to zero"},
	{0x0010, "Bit 4: Reserved for use with method 8, for enhanced deflating"},
	{0x0020, "Bit 5: compressed patched data.  (Note: Requires PKZIP version 2.70 or greater)"},
	{0x0040, "Bit 6: Strong encryption."},
	{0x0080, "Bit 7: Currently unused."},
	{0x0100, "Bit 8: Currently unused."},
	{0x0200, "Bit 9: Currently unused."},
	{0x0400, "Bit 10: Currently unused."},
	{0x0800, "Bit 11: Language encoding flag (EFS). the filename and comment fields for this file must be encoded using UTF-8."},
	{0x1000, "Bit 12: Reserved by PKWARE for enhanced compression."},
	{0x2000, "Bit 13: Used when encrypting the Central Directory to indicate selected data values in the Local Header are masked to hide their actual values."},
	{0x4000, "Bit 14: Reserved by PKWARE."},
	{0x8000, "Bit 15: Reserved by PKWARE."},
}

// generalPurposeFlags explains the general purpose bit flag. Bits 1 and 2 mean different things per method.
func (d *decoder) generalPurposeFlags(flags, method uint16) {
	if flags&0x0001 != 0 {
		d.note("Bit 0: encrypted")
	}

	switch method {
	case 6:
		if flags&0x0002 != 0 {
			d.note("Bit 1: Method6: 8K sliding dictionary")
		}
		if flags&0x0004 != 0 {
			d.note("Bit 2: Method6: 3 Shannon-Fano trees")
		}
	case 8, 9:
		switch (flags >> 1) & 3 {
		case 1:
			d.note("Bit 1-2: Method8/9: Maximum (-exx/-ex) compression")
		case 2:
			d.note("Bit 1-2: Method8/9: Fast (-ef) compression")
		case 3:
			d.note("Bit 1-2: Method8/9: Super Fast (-es) compression")
		}
	case 14:
		if flags&0x0002 != 0 {
			d.note("Bit 1: Method14: end-of-stream marker used to mark the end of the compressed data stream")
		}
	}

	for _, b := range flagBits {
		if flags&b.mask != 0 {
			d.note(b.text)
		}
	}
}

func (d *decoder) internalAttributes(attr uint16) {
	if attr&1 != 0 {
		d.note("text file")
	}
	if attr&2 != 0 {
		d.note("variable length record control field precedes each logical record")
	}
}

const isoSeconds = "2006-01-02T15:04:05"

// dosDateTime notes the MS-DOS date and time of an entry.
//
// A date with a zero or out of range month, or a zero day, is reported as invalid instead of being normalised.
func (d *decoder) dosDateTime(dosTime, dosDate uint16) {
	if month, day := dosDate>>5&0xf, dosDate&0x1f; month == 0 || month > 12 || day == 0 {
		d.notef("invalid date 0x%04X", dosDate)
		return
	}

	d.note(msDosTimeToTime(dosDate, dosTime).Format(isoSeconds))
}

// fileTime notes an NTFS FILETIME, the number of 100ns intervals since 1601-01-01 UTC.
func (d *decoder) fileTime(ft uint64) {
	d.note(fileTimeToTime(ft).Format(isoSeconds))
}

// unixTime notes a 32-bit Unix timestamp as used by the extended timestamp extra field.
func (d *decoder) unixTime(t uint32) {
	d.note(time.Unix(int64(t), 0).UTC().Format(isoSeconds + " UTC"))
}

// msDosTimeToTime converts an MS-DOS date and time into a time.Time.
// The resolution is 2s.
// See: https://learn.microsoft.com/en-us/windows/win32/api/winbase/nf-winbase-dosdatetimetofiletime
//
// taken from https://go.dev/src/archive/zip/struct.go.
func msDosTimeToTime(dosDate, dosTime uint16) time.Time {
	return time.Date(
		// date bits 0-4: day of month; 5-8: month; 9-15: years since 1980
		int(dosDate>>9+1980),
		time.Month(dosDate>>5&0xf),
		int(dosDate&0x1f),

		// time bits 0-4: second/2; 5-10: minute; 11-15: hour
		int(dosTime>>11),
		int(dosTime>>5&0x3f),
		int(dosTime&0x1f*2),
		0, // nanoseconds

		time.UTC,
	)
}

// ticksPerSecond and epochDelta convert between FILETIME and Unix time.
const (
	ticksPerSecond = 10_000_000
	epochDelta     = 11_644_473_600
)

func fileTimeToTime(ft uint64) time.Time {
	return time.Unix(int64(ft/ticksPerSecond)-epochDelta, int64(ft%ticksPerSecond)*100).UTC()
}
