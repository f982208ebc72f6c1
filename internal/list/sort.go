package list

// Sort orders the members of anchor ascending by cmp with a top-down merge
// sort. Equal members keep their relative order.
//
// While sorting, the cycle is cut into a nil-terminated chain and only next
// links are maintained. Prev links and the cycle through anchor are rebuilt
// before Sort returns; nothing outside this function observes the chain.
func Sort[E any](anchor *Link[E], cmp func(a, b *E) int) {
	if Empty(anchor) || Singular(anchor) {
		return
	}

	first := anchor.next
	anchor.prev.next = nil
	anchor.next = nil

	relink(anchor, mergeSort(first, cmp))
}

func mergeSort[E any](head *Link[E], cmp func(a, b *E) int) *Link[E] {
	if head == nil || head.next == nil {
		return head
	}

	slow, fast := head, head.next
	for fast != nil && fast.next != nil {
		slow = slow.next
		fast = fast.next.next
	}
	mid := slow.next
	slow.next = nil

	return merge(mergeSort(head, cmp), mergeSort(mid, cmp), cmp)
}

// merge joins two sorted chains. Ties go to left.
func merge[E any](left, right *Link[E], cmp func(a, b *E) int) *Link[E] {
	var head Link[E]
	tail := &head
	for left != nil && right != nil {
		if cmp(right.entry, left.entry) < 0 {
			tail.next = right
			right = right.next
		} else {
			tail.next = left
			left = left.next
		}
		tail = tail.next
	}

	if left != nil {
		tail.next = left
	} else {
		tail.next = right
	}
	return head.next
}

// relink rebuilds prev links along the chain starting at first and closes
// the cycle through anchor.
func relink[E any](anchor, first *Link[E]) {
	prev := anchor
	for cur := first; cur != nil; cur = cur.next {
		prev.next = cur
		cur.prev = prev
		prev = cur
	}
	prev.next = anchor
	anchor.prev = prev
}
