package zipdump

// zip64FixedSize is the size of the fixed fields of the Zip64 end of central directory record that follow its "size
// of this record" field.
const zip64FixedSize = 2*2 + 4*2 + 8*4

// record prints the header of the record that starts at offset and decodes the rest of it.
func (d *decoder) record(r *Reader, k Kind, signature uint32, offset int64) {
	switch k {
	case LocalFileHeader:
		d.files++
		d.header(k.String(), signature, offset, d.files)
		d.localFileHeader(r, d.files)
	case DataDescriptor:
		d.header(k.String(), signature, offset, d.files)
		d.dataDescriptor(r)
	case ArchiveExtraData:
		d.header(k.String(), signature, offset, -1)
		d.archiveExtraData(r)
	case CentralDirectoryHeader:
		d.dirs++
		d.header(k.String(), signature, offset, d.dirs)
		d.centralDirectoryHeader(r, d.dirs)
	case DigitalSignature:
		d.header(k.String(), signature, offset, -1)
		d.digitalSignature(r)
	case Zip64EndRecord:
		d.header(k.String(), signature, offset, -1)
		d.zip64EndRecord(r)
	case Zip64EndLocator:
		d.header(k.String(), signature, offset, -1)
		d.zip64EndLocator(r)
	case EndOfCentralDirectory:
		d.header(k.String(), signature, offset, -1)
		d.endOfCentralDirectory(r)
	default:
		d.header(k.String(), signature, offset, -1)
	}
}

// localFileHeader decodes a local file header, followed by its file data and data descriptor if their position can be
// determined.
func (d *decoder) localFileHeader(r *Reader, n int) {
	f := d.fields(r)
	v := f.u16("version needed to extract", Hex)
	f.notes(func() { d.version(v) })
	flags := f.u16("general purpose bit flag", Hex)
	method := f.u16("compression method", Hex)
	f.notes(func() { d.generalPurposeFlags(flags, method) })
	modTime := f.u16("last mod file time", Hex)
	modDate := f.u16("last mod file date", Hex)
	f.notes(func() { d.dosDateTime(modTime, modDate) })
	f.u32("crc-32", Hex)
	compressedSize := f.u32("compressed size", DecimalHex)
	f.u32("uncompressed size", DecimalHex)
	nameLen := f.u16("file name length", DecimalHex)
	extraLen := f.u16("extra field length", DecimalHex)
	if !f.ok {
		return
	}

	if nameLen > 0 {
		d.section("Local file name", r.Offset(), n)
		d.dumpString(r, int64(nameLen))
	}
	if extraLen > 0 {
		d.section("Local extra field", r.Offset(), n)
		d.extraField(r, int64(extraLen))
	}

	// the real size is in the Zip64 extra field so the end of the file data is not known here.
	if compressedSize == 0xffffffff || r.AtEOF() {
		return
	}

	if compressedSize > 0 {
		d.section("File data", r.Offset(), n)
		d.dumpOrSkip(r, "file data", int64(compressedSize))
	}

	if flags&0x0008 == 0 || r.AtEOF() {
		return
	}

	d.section("Data descriptor", r.Offset(), n)
	if d.peekDataDescriptor(r) {
		f := d.fields(r)
		f.u32("data descriptor signature", Hex)
	}
	d.dataDescriptor(r)
}

func (d *decoder) peekDataDescriptor(r *Reader) bool {
	return string(r.Peek(len(ddSigBytes))) == string(ddSigBytes)
}

func (d *decoder) dataDescriptor(r *Reader) {
	f := d.fields(r)
	f.u32("crc-32", Hex)
	f.u32("compressed size", DecimalHex)
	f.u32("uncompressed size", DecimalHex)
}

func (d *decoder) archiveExtraData(r *Reader) {
	f := d.fields(r)
	n := f.u32("extra field length", DecimalHex)
	if !f.ok || n == 0 {
		return
	}

	d.section("extra field data", r.Offset(), -1)
	d.extraField(r, int64(n))
}

func (d *decoder) centralDirectoryHeader(r *Reader, n int) {
	f := d.fields(r)
	madeBy := f.u16("version made by", Hex)
	f.notes(func() { d.version(madeBy) })
	needed := f.u16("version needed to extract", Hex)
	f.notes(func() { d.version(needed) })
	flags := f.u16("general purpose bit flag", Hex)
	method := f.u16("compression method", Hex)
	f.notes(func() { d.generalPurposeFlags(flags, method) })
	modTime := f.u16("last mod file time", Hex)
	modDate := f.u16("last mod file date", Hex)
	f.notes(func() { d.dosDateTime(modTime, modDate) })
	f.u32("crc-32", Hex)
	f.u32("compressed size", DecimalHex)
	f.u32("uncompressed size", DecimalHex)
	nameLen := f.u16("file name length", DecimalHex)
	extraLen := f.u16("extra field length", DecimalHex)
	commentLen := f.u16("file comment length", DecimalHex)
	f.u16("disk number start", DecimalUnlessSentinel)
	attr := f.u16("internal file attributes", Hex)
	f.notes(func() { d.internalAttributes(attr) })
	f.u32("external file attributes", Hex)
	f.u32("relative offset of local header", DecimalHex)
	if !f.ok {
		return
	}

	if nameLen > 0 {
		d.section("file name", r.Offset(), n)
		d.dumpString(r, int64(nameLen))
	}
	if extraLen > 0 {
		d.section("extra field", r.Offset(), n)
		d.extraField(r, int64(extraLen))
	}
	if commentLen > 0 {
		d.section("file comment", r.Offset(), n)
		d.dumpString(r, int64(commentLen))
	}
}

func (d *decoder) digitalSignature(r *Reader) {
	f := d.fields(r)
	size := f.u16("size of data", DecimalHex)
	if !f.ok || size == 0 {
		return
	}

	d.section("signature data", r.Offset(), -1)
	d.dumpBytes(r, int64(size))
}

// zip64EndRecord decodes the Zip64 end of central directory record. The extensible data sector is dumped as is.
func (d *decoder) zip64EndRecord(r *Reader) {
	f := d.fields(r)
	size := f.u64("size of this record", DecimalHex)
	madeBy := f.u16("version made by", Hex)
	f.notes(func() { d.version(madeBy) })
	needed := f.u16("version needed to extract", Hex)
	f.notes(func() { d.version(needed) })
	f.u32("number of this disk", Decimal)
	f.u32("disk of starting directory", Decimal)
	f.u64("directory-entries on this disk", Decimal)
	f.u64("directory-entries in all disks", Decimal)
	f.u64("size of the directory", DecimalHex)
	f.u64("offset of starting directory", DecimalHex)
	if !f.ok {
		return
	}

	d.section("zip64 extensible data sector", r.Offset(), -1)
	if size < zip64FixedSize {
		if !d.opts.Quiet {
			d.notef("size of this record is less than %d", zip64FixedSize)
		}
		return
	}

	d.dumpBytes(r, int64(min(size-zip64FixedSize, 1<<63-1)))
}

func (d *decoder) zip64EndLocator(r *Reader) {
	f := d.fields(r)
	f.u32("disk of starting directory", Decimal)
	f.u64("relative offset of zip64 record", DecimalHex)
	f.u32("total number of disks", Decimal)
}

func (d *decoder) endOfCentralDirectory(r *Reader) {
	f := d.fields(r)
	f.u16("number of this disk", DecimalUnlessSentinel)
	f.u16("disk of starting directory", DecimalUnlessSentinel)
	f.u16("directory-entries on this disk", DecimalUnlessSentinel)
	f.u16("directory-entries in all disks", DecimalUnlessSentinel)
	f.u32("size of the directory", DecimalHex)
	f.u32("offset of starting directory", DecimalHex)
	commentLen := f.u16(".ZIP file comment length", DecimalHex)
	if !f.ok || commentLen == 0 {
		return
	}

	d.section(".ZIP file comment", r.Offset(), -1)
	d.dumpString(r, int64(commentLen))
}
