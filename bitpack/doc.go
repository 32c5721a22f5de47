package bitpack

/*

# Bit packed field access

Values are packed most significant bit first. Bit 0 of a buffer is the high
order bit of byte 0, bit 8 is the high order bit of byte 1, and so on. A field
of width w at bit offset o occupies bits o .. o+w-1 and may straddle any number
of byte boundaries.

	byte:    0                1
	bit:     0 1 2 3 4 5 6 7  8 9 ...
	         |<-- w=11, o=3 ----->|

Read and Write are stateless, the caller tracks offsets. Stream wraps Read for
the common case of decoding a record field by field.

## Biased fields

Signed quantities are stored as unsigned fields after adding a bias, so no
sign extension is needed when decoding. Field pairs a width with its bias and
is the single place the arithmetic lives.

*/
