package zipdump

import (
	"encoding/binary"
	"fmt"
)

// Kind identifies a top-level ZIP record by its 4-byte signature.
type Kind int

const (
	// Unknown is any signature that starts with "PK" but is not one of the known records.
	Unknown Kind = iota
	LocalFileHeader
	DataDescriptor
	ArchiveExtraData
	CentralDirectoryHeader
	DigitalSignature
	Zip64EndRecord
	Zip64EndLocator
	EndOfCentralDirectory
)

const (
	lfhSig    = 0x04034b50
	ddSig     = 0x08074b50
	aedSig    = 0x08064b50
	cdfhSig   = 0x02014b50
	dsSig     = 0x05054b50
	eocd64Sig = 0x06064b50
	loc64Sig  = 0x07064b50
	eocdSig   = 0x06054b50
)

var (
	// anchor is the 2-byte prefix shared by every record signature.
	anchor = [2]byte{'P', 'K'}

	ddSigBytes = putUint32(ddSig)
)

func putUint32(v uint32) (b []byte) {
	b = make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}

// KindOf returns the Kind of the given signature, or Unknown.
func KindOf(signature uint32) Kind {
	switch signature {
	case lfhSig:
		return LocalFileHeader
	case ddSig:
		return DataDescriptor
	case aedSig:
		return ArchiveExtraData
	case cdfhSig:
		return CentralDirectoryHeader
	case dsSig:
		return DigitalSignature
	case eocd64Sig:
		return Zip64EndRecord
	case loc64Sig:
		return Zip64EndLocator
	case eocdSig:
		return EndOfCentralDirectory
	default:
		return Unknown
	}
}

// Signature returns the signature of the record kind. Unknown has none and returns 0.
func (k Kind) Signature() uint32 {
	switch k {
	case LocalFileHeader:
		return lfhSig
	case DataDescriptor:
		return ddSig
	case ArchiveExtraData:
		return aedSig
	case CentralDirectoryHeader:
		return cdfhSig
	case DigitalSignature:
		return dsSig
	case Zip64EndRecord:
		return eocd64Sig
	case Zip64EndLocator:
		return loc64Sig
	case EndOfCentralDirectory:
		return eocdSig
	default:
		return 0
	}
}

// String returns the section title used in the transcript.
func (k Kind) String() string {
	switch k {
	case Unknown:
		return "!! Unknown record"
	case LocalFileHeader:
		return "Local file header"
	case DataDescriptor:
		return "Data descriptor header"
	case ArchiveExtraData:
		return "Archive extra data record"
	case CentralDirectoryHeader:
		return "Central file header"
	case DigitalSignature:
		return "Digital signature"
	case Zip64EndRecord:
		return "Zip64 end of central directory record"
	case Zip64EndLocator:
		return "Zip64 end of central directory locator"
	case EndOfCentralDirectory:
		return "End of central directory record"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}
