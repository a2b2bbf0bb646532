package zipdump

// Extra field chunk tags that have a dedicated decoder.
const (
	Zip64ExtraTag             = 0x0001
	OS2ExtraTag               = 0x0009
	NTFSExtraTag              = 0x000a
	SecurityDescriptorTag     = 0x4453
	ExtendedTimestampExtraTag = 0x5455
	UnicodeCommentExtraTag    = 0x6375
	UnicodePathExtraTag       = 0x7075
)

// chunkHeaderSize is the size of the tag and size fields that precede every extra field chunk.
const chunkHeaderSize = 4

func extraTitle(tag uint16) string {
	switch tag {
	case Zip64ExtraTag:
		return "Zip64 Extended Information Extra Field"
	case OS2ExtraTag:
		return "OS/2 Extended Attributes Extra Field"
	case NTFSExtraTag:
		return "NTFS Extra Field"
	case SecurityDescriptorTag:
		return "Windows NT Security Descriptor Extra Field"
	case ExtendedTimestampExtraTag:
		return "Extended Timestamp Extra Field"
	case UnicodeCommentExtraTag:
		return "Info-ZIP Unicode Comment Extra Field"
	case UnicodePathExtraTag:
		return "Info-ZIP Unicode Path Extra Field"
	default:
		return "!! Unknown Extra Field"
	}
}

// extraField decodes an extra field area of n bytes as a sequence of tagged chunks.
//
// Every chunk is decoded from a reader that is limited to its declared size (further clamped to what is left of the
// area), so a chunk decoder can never read into the next chunk or past the area. Whatever a chunk decoder leaves
// unread, and whatever is left of the area after the last whole chunk, is reported and skipped.
func (d *decoder) extraField(r *Reader, n int64) {
	area := r.Limit(n)

	for area.Remaining() > 0 {
		if area.Remaining() < chunkHeaderSize {
			break
		}

		tag, ok := area.Uint16()
		if !ok {
			return
		}
		size, ok := area.Uint16()
		if !ok {
			return
		}

		d.extraHeader(extraTitle(tag), tag, size)

		bodyLen := int64(size)
		if rem := area.Remaining(); bodyLen > rem {
			if !d.opts.Quiet {
				d.notef("extra size exceeds the remaining %d bytes of the extra field", rem)
			}
			bodyLen = rem
		}

		body := area.Limit(bodyLen)
		d.extraChunk(tag, body)

		if rem := body.Remaining(); rem > 0 && !body.AtEOF() {
			d.skipUnknown(body, rem)
		}
	}

	if rem := area.Remaining(); rem > 0 && !area.AtEOF() {
		d.skipUnknown(area, rem)
	}
}

func (d *decoder) extraChunk(tag uint16, r *Reader) {
	switch tag {
	case Zip64ExtraTag:
		d.zip64Extra(r)
	case OS2ExtraTag:
		d.os2Extra(r)
	case NTFSExtraTag:
		d.ntfsExtra(r)
	case SecurityDescriptorTag:
		d.securityDescriptorExtra(r)
	case ExtendedTimestampExtraTag:
		d.extendedTimestampExtra(r)
	case UnicodeCommentExtraTag:
		d.unicodeExtra(r, "entry comment encoded UTF-8:")
	case UnicodePathExtraTag:
		d.unicodeExtra(r, "file name encoded UTF-8:")
	default:
		d.dumpBytes(r, r.Remaining())
	}
}

// zip64Extra decodes the Zip64 extended information.
//
// The fields only appear when the matching header field holds its sentinel, so a central directory copy is often
// shorter than the full 28 bytes; decoding stops at the chunk boundary.
func (d *decoder) zip64Extra(r *Reader) {
	f := d.fields(r)
	f.u64("Original Size", DecimalHex)
	f.u64("Compressed Size", DecimalHex)
	f.u64("Relative Header Offset", DecimalHex)
	f.u32("Disk Start Number", Decimal)
}

// os2Extra decodes the OS/2 extended attributes. The central directory version only has the block size.
func (d *decoder) os2Extra(r *Reader) {
	f := d.fields(r)
	f.u32("uncompressed EA data size", DecimalHex)
	if !f.ok || r.Remaining() == 0 {
		return
	}

	f.u16("compression type", Decimal)
	f.u32("CRC", Hex)
	if rem := r.Remaining(); f.ok && rem > 0 {
		d.printf("compressed EA data:\n")
		d.dumpOrSkip(r, "compressed EA data", rem)
	}
}

// ntfsExtra decodes the NTFS attributes: 4 reserved bytes followed by tag/size attributes.
func (d *decoder) ntfsExtra(r *Reader) {
	f := d.fields(r)
	if f.u32("reserved", Hex); !f.ok {
		return
	}

	for r.Remaining() >= chunkHeaderSize {
		tag, ok := r.Uint16()
		if !ok {
			return
		}
		size, ok := r.Uint16()
		if !ok {
			return
		}

		attr := r.Limit(min(int64(size), r.Remaining()))

		switch tag {
		case 1:
			d.extraHeader("NTFS file time", tag, size)
			af := d.fields(attr)
			for _, label := range []string{"last mod time", "last access time", "last creation time"} {
				ft := af.u64(label, Hex)
				af.notes(func() { d.fileTime(ft) })
			}
		default:
			d.extraHeader("!! Unknown NTFS Extra Field", tag, size)
			d.dumpBytes(attr, attr.Remaining())
		}

		if rem := attr.Remaining(); rem > 0 && !attr.AtEOF() {
			d.skipUnknown(attr, rem)
		}
	}
}

// securityDescriptorExtra decodes the Windows NT security descriptor. The central directory version only has the
// descriptor size.
func (d *decoder) securityDescriptorExtra(r *Reader) {
	f := d.fields(r)
	f.u32("uncompressed SD data size", DecimalHex)
	if !f.ok || r.Remaining() == 0 {
		return
	}

	f.u8("version", Decimal)
	f.u16("compression type", Decimal)
	f.u32("crc", Hex)
	if rem := r.Remaining(); f.ok && rem > 0 {
		d.printf("compressed SD data:\n")
		d.dumpOrSkip(r, "compressed SD data", rem)
	}
}

// extendedTimestampExtra decodes the "UT" extra field. Each time is only present if its flag bit is set, and the
// central directory version usually carries the modification time only even when the flags say otherwise.
func (d *decoder) extendedTimestampExtra(r *Reader) {
	f := d.fields(r)
	flags := f.u8("Flags", Hex)

	for i, label := range []string{"last mod time", "last access time", "last create time"} {
		if flags&(1<<i) == 0 || r.Remaining() == 0 {
			continue
		}

		t := f.u32(label, Hex)
		f.notes(func() { d.unixTime(t) })
	}
}

// unicodeExtra decodes the Info-ZIP Unicode comment and Unicode path extra fields which share the same layout.
func (d *decoder) unicodeExtra(r *Reader, caption string) {
	f := d.fields(r)
	f.u8("version", Decimal)
	f.u32("crc", Hex)
	if rem := r.Remaining(); f.ok && rem > 0 {
		d.printf("%s\n", caption)
		d.dumpBytes(r, rem)
	}
}
