// Package vecio reads and writes batched vector fixtures.
//
// A fixture file starts with a 16 byte header:
//
//	[magic "VDOT"][version u8][kind u8][compression u8][reserved u8][n u32][batch u32]
//
// followed by the little-endian element payload split into blocks of at
// most 256KB. Each block is [uncompressed u32][compressed u32][data]; a
// compressed size of 0 marks a block stored raw because compression did
// not pay off. The file ends with the CRC32-Castagnoli of the uncompressed
// payload as a little-endian u32.
package vecio
