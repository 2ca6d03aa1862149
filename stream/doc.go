package stream

/* Outcome Rules

Every read, write, fill and drain operation reports one of three outcomes:

	Ok         the operation made progress as specified.
	EndOfData  no more data will ever arrive (input) or be accepted (output).
	WouldBlock the transport is not ready right now; retry later.

1. An operation returns (Outcome, error); the outcome is meaningful only
   when the error is nil. Errors are reserved for hard failures: a closed
   stream, a transport that broke its contract, or an OS-level fault.
2. EndOfData and WouldBlock are not errors. They travel as plain return
   values so the common transport conditions stay on the fast path.
3. A fill that reports Ok must have produced at least one new element;
   a drain that reports Ok must have consumed at least one. Engines treat
   an Ok with no progress as a broken transport (ErrNoProgress) rather
   than spinning on it.
4. WouldBlock never consumes input or stores output. A caller that sees
   it may retry the exact same call later.
5. Partial progress before a non-Ok outcome is reported through the count
   returned by the sequence operations, never discarded.
*/
